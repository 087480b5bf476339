package conf

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/openxfs/xfsmgr/wfs"
)

type openKey struct {
	root Root
	path string
}

// MapStore is an in-memory Store for embedding and tests. Paths are
// case-insensitive, matching the registry trees this data normally
// lives in.
type MapStore struct {
	mu    sync.Mutex
	trees map[Root]map[string]map[string]string
	open  map[Key]openKey
	next  Key
}

var _ Store = &MapStore{}

func NewMapStore() *MapStore {
	return &MapStore{
		trees: map[Root]map[string]map[string]string{},
		open:  map[Key]openKey{},
	}
}

func normalizePath(path string) string {
	return strings.ToLower(strings.Trim(path, "\\"))
}

// SetValue creates the key path if needed and sets a string value
// under it.
func (s *MapStore) SetValue(root Root, path, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree := s.trees[root]
	if tree == nil {
		tree = map[string]map[string]string{}
		s.trees[root] = tree
	}
	key := normalizePath(path)
	values := tree[key]
	if values == nil {
		values = map[string]string{}
		tree[key] = values
	}
	values[strings.ToLower(name)] = value
}

// DeleteKey removes a key path and all its values.
func (s *MapStore) DeleteKey(root Root, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tree := s.trees[root]; tree != nil {
		delete(tree, normalizePath(path))
	}
}

func (s *MapStore) OpenKey(root Root, path string) (Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree := s.trees[root]
	normalized := normalizePath(path)
	if tree == nil || tree[normalized] == nil {
		return 0, errors.Wrapf(wfs.ErrCfgInvalidKey, "%s key %q does not exist", root, path)
	}
	s.next++
	s.open[s.next] = openKey{root: root, path: normalized}
	return s.next, nil
}

func (s *MapStore) QueryValue(key Key, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.open[key]
	if !ok {
		return "", errors.Wrapf(wfs.ErrCfgInvalidKey, "key handle %d is not open", key)
	}
	values := s.trees[entry.root][entry.path]
	value, ok := values[strings.ToLower(name)]
	if !ok {
		return "", errors.Wrapf(wfs.ErrCfgInvalidName, "key %q has no value %q", entry.path, name)
	}
	return value, nil
}

func (s *MapStore) CloseKey(key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.open[key]; !ok {
		return errors.Wrapf(wfs.ErrCfgInvalidKey, "key handle %d is not open", key)
	}
	delete(s.open, key)
	return nil
}
