// Package remote executes shell commands on fleet targets, over SSH
// for remote hosts and through the local shell for the machine the
// collector runs on. Every execution is bounded by the context passed
// to it; callers never see a hung connection outlast its deadline.
package remote
