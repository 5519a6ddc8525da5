package cache

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/etnz/dividends"
	"github.com/etnz/dividends/date"
	"gopkg.in/yaml.v3"
)

const registryFilename = "cache.yaml"

// initKey is written in a fresh registry, and means nothing.
const initKey = "init"

// Entry is a cached security and the date of its last successful refresh.
type Entry struct {
	ID        dividends.ID
	Refreshed date.Date
}

// Registry is the index of the cached securities.
//
// An ID absent from the registry has never been fetched. The refresh date is for
// display only, it never expires an entry.
type Registry struct {
	entries map[dividends.ID]date.Date
	hasInit bool
}

// newRegistry returns an empty registry, as created on first use.
func newRegistry() *Registry {
	return &Registry{entries: make(map[dividends.ID]date.Date), hasInit: true}
}

// Has reports whether id has ever been fetched.
func (r *Registry) Has(id dividends.ID) bool {
	_, ok := r.entries[id]
	return ok
}

// Refreshed returns the last refresh date of id.
func (r *Registry) Refreshed(id dividends.ID) (date.Date, bool) {
	on, ok := r.entries[id]
	return on, ok
}

// Set records a successful refresh of id.
func (r *Registry) Set(id dividends.ID, on date.Date) { r.entries[id] = on }

// Entries returns all entries sorted by ID.
func (r *Registry) Entries() []Entry {
	list := make([]Entry, 0, len(r.entries))
	for id, on := range r.entries {
		list = append(list, Entry{ID: id, Refreshed: on})
	}
	slices.SortFunc(list, func(a, b Entry) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return list
}

// UnmarshalYAML reads a mapping of identifier to DD-MM-YYYY date, validating both.
func (r *Registry) UnmarshalYAML(node *yaml.Node) error {
	raw := make(map[string]*string)
	if err := node.Decode(&raw); err != nil {
		return err
	}
	r.entries = make(map[dividends.ID]date.Date, len(raw))
	r.hasInit = false
	for key, value := range raw {
		if key == initKey {
			r.hasInit = true
			continue
		}
		id, err := dividends.ParseID(key)
		if err != nil {
			return err
		}
		if string(id) != key {
			return fmt.Errorf("%w %q: not in canonical form %q", dividends.ErrInvalidIdentifier, key, id)
		}
		if value == nil {
			return fmt.Errorf("entry %q: missing refresh date", key)
		}
		on, err := date.ParseRegistry(*value)
		if err != nil {
			return fmt.Errorf("entry %q: %w", key, err)
		}
		r.entries[id] = on
	}
	return nil
}

// MarshalYAML writes the registry as a mapping, yaml sorts the keys.
func (r *Registry) MarshalYAML() (any, error) {
	raw := make(map[string]*string, len(r.entries)+1)
	if r.hasInit {
		raw[initKey] = nil
	}
	for id, on := range r.entries {
		s := on.RegistryString()
		raw[string(id)] = &s
	}
	return raw, nil
}

var _ yaml.Unmarshaler = (*Registry)(nil)
var _ yaml.Marshaler = (*Registry)(nil)

// loadRegistry reads the registry at path. A missing file is created with the init key.
func loadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		r := newRegistry()
		if err := saveRegistry(path, r); err != nil {
			return nil, err
		}
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read registry %q: %w", path, err)
	}
	r := newRegistry()
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("format error %q: %w", path, err)
	}
	return r, nil
}

// saveRegistry fully rewrites the registry at path.
func saveRegistry(path string, r *Registry) error {
	return writeFile(path, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	})
}
