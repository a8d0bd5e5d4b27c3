package fleet

import "fmt"

// LocalMarker is the reserved address denoting the machine the collector
// itself runs on. Commands for such a target run locally instead of over SSH.
const LocalMarker = "local"

// NoPassword is the credential marker meaning "no password configured";
// such targets authenticate with SSH keys only.
const NoPassword = "-"

// Target is one remote host configuration entry to be monitored.
// It is immutable once loaded for a collection cycle; identity for
// display purposes is the alias.
type Target struct {
	// Alias is the unique display key for the host.
	Alias string

	// User is the SSH login user.
	User string

	// Addr is the connection address, or LocalMarker for the local machine.
	Addr string

	// Port is the SSH port, "22" when the config leaves it empty.
	Port string

	// Password is the SSH/sudo credential, or NoPassword when key-based.
	Password string

	// Comment is free text carried through to the snapshot.
	Comment string
}

// Identity returns the (user, address, port) tuple that identifies a
// distinct remote endpoint. Strategy and host-facts caches key on it.
func (t Target) Identity() string {
	return fmt.Sprintf("%s@%s:%s", t.User, t.Addr, t.Port)
}

// IsLocal reports whether the target denotes the local machine.
func (t Target) IsLocal() bool {
	return t.Addr == LocalMarker
}

// HasPassword reports whether the target carries a usable credential.
func (t Target) HasPassword() bool {
	return t.Password != "" && t.Password != NoPassword
}
