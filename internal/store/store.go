// Package store persists named secrets in a YAML file with restrictive
// permissions. The store file is the single sanctioned persistence of raw
// payloads; every listing or log output built from it goes through the
// redaction render path.
package store

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arjun-29/veil/internal/ops"
	"github.com/arjun-29/veil/internal/secret"
	"github.com/arjun-29/veil/internal/types"
)

// ErrNotFound marks a lookup of an unknown entry name.
var ErrNotFound = errors.New("no such entry")

// ErrExists marks a put that would overwrite an existing name.
var ErrExists = errors.New("entry already exists")

// Entry is one stored secret. Value holds the payload in the kind's text
// encoding (base64 for binary, RFC 3339 for dates). Collection kinds are
// built programmatically and are not storable.
type Entry struct {
	Name      string     `yaml:"name"`
	Kind      types.Kind `yaml:"kind"`
	Value     string     `yaml:"value"`
	Template  string     `yaml:"template,omitempty"`
	CreatedAt time.Time  `yaml:"created_at"`
}

// Decode reconstructs the secret wrapper from the stored encoding.
func (e Entry) Decode() (secret.Value, error) {
	switch e.Kind {
	case types.KindString:
		return secret.NewStringWithTemplate(e.Value, e.Template), nil
	case types.KindInt:
		n, err := strconv.ParseInt(e.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		return secret.NewIntWithTemplate(n, e.Template), nil
	case types.KindBool:
		b, err := strconv.ParseBool(e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		return secret.NewBoolWithTemplate(b, e.Template), nil
	case types.KindFloat:
		f, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		return secret.NewFloatWithTemplate(f, e.Template), nil
	case types.KindDate:
		d, err := time.Parse(time.RFC3339, e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		return secret.NewDateWithTemplate(d, e.Template), nil
	case types.KindBinary:
		raw, err := base64.StdEncoding.DecodeString(e.Value)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Name, err)
		}
		return secret.NewBinaryWithTemplate(raw, e.Template), nil
	}
	return nil, fmt.Errorf("entry %q: kind %q is not storable", e.Name, e.Kind)
}

// Store is a loaded store file.
type Store struct {
	path    string
	Entries []Entry `yaml:"entries"`
}

// Load reads the store at path; a missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	s.path = path
	return s, nil
}

// Save writes the store back with owner-only permissions.
func (s *Store) Save() error {
	if s.path == "" {
		return fmt.Errorf("store path is required")
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

// Get returns the entry with the given name.
func (s *Store) Get(name string) (Entry, error) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Names returns the entry names in storage order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.Entries))
	for _, e := range s.Entries {
		names = append(names, e.Name)
	}
	return names
}

// Delete removes the named entry.
func (s *Store) Delete(name string) error {
	for i, e := range s.Entries {
		if e.Name == name {
			s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Put adds an entry. The returned duplicate names identify existing
// same-kind entries whose payload equals the new one, found through the
// operator dispatcher; callers surface them as a warning.
func (s *Store) Put(e Entry) ([]string, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("entry name is required")
	}
	if _, err := s.Get(e.Name); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrExists, e.Name)
	}
	nv, err := e.Decode()
	if err != nil {
		return nil, err
	}
	defer nv.Close()

	var dups []string
	for _, existing := range s.Entries {
		if existing.Kind != e.Kind {
			continue
		}
		ev, err := existing.Decode()
		if err != nil {
			continue
		}
		same, eqErr := ops.Equality(nv, types.OpEqual, ev)
		ev.Close()
		if eqErr == nil && same {
			dups = append(dups, existing.Name)
		}
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.Entries = append(s.Entries, e)
	return dups, nil
}
