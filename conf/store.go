// Package conf defines the configuration collaborator the manager
// reads provider wiring from. The manager only ever opens a key, reads
// string values and closes the key again; where that data actually
// lives (registry hive, file, in-memory map) is the embedder's choice.
package conf

// Root selects which configuration tree a path is resolved against.
type Root int

const (
	// MachineRoot is the machine-wide tree holding provider module
	// locations.
	MachineRoot Root = iota + 1
	// UserRoot is the per-user tree holding logical service names.
	UserRoot
)

func (r Root) String() string {
	switch r {
	case MachineRoot:
		return "machine"
	case UserRoot:
		return "user"
	}
	return "unknown"
}

// Key is an open-key handle scoped to the Store that issued it. Zero
// is never a valid key.
type Key uint64

// Store is the read surface the manager requires.
//
// OpenKey resolves a backslash-separated path below root and returns a
// handle; a missing path fails with the invalid-config-key code.
// QueryValue reads a named string value from an open key; a missing
// name fails with the invalid-config-name code. CloseKey releases the
// handle.
type Store interface {
	OpenKey(root Root, path string) (Key, error)
	QueryValue(key Key, name string) (string, error)
	CloseKey(key Key) error
}

// LookupValue opens path, reads one value and closes the key again.
// This is the only access pattern the manager uses.
func LookupValue(s Store, root Root, path, name string) (string, error) {
	key, err := s.OpenKey(root, path)
	if err != nil {
		return "", err
	}
	value, err := s.QueryValue(key, name)
	closeErr := s.CloseKey(key)
	if err != nil {
		return "", err
	}
	if closeErr != nil {
		return "", closeErr
	}
	return value, nil
}
