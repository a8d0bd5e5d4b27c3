// Package hostfacts discovers static per-host facts (CPU core count,
// total memory) and caches them for the process lifetime. Facts are
// resolved at most once per endpoint; the local machine is read
// directly instead of shelling out.
package hostfacts
