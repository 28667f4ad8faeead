package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arjun-29/veil/internal/types"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Load(filepath.Join(t.TempDir(), "store.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := tempStore(t)
	dups, err := s.Put(Entry{Name: "db_password", Kind: types.KindString, Value: "hunter2"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("dups = %v", dups)
	}

	e, err := s.Get("db_password")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	v, err := e.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	sv, ok := v.(interface{ Reveal() string })
	if !ok || sv.Reveal() != "hunter2" {
		t.Fatalf("decoded payload mismatch")
	}
	if e.CreatedAt.IsZero() {
		t.Fatalf("created_at not set")
	}
}

func TestPutRejectsDuplicateName(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Put(Entry{Name: "a", Kind: types.KindString, Value: "x"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(Entry{Name: "a", Kind: types.KindString, Value: "y"}); !errors.Is(err, ErrExists) {
		t.Fatalf("err = %v", err)
	}
}

func TestPutDetectsSameKindDuplicatePayloads(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Put(Entry{Name: "first", Kind: types.KindString, Value: "same-token"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(Entry{Name: "number", Kind: types.KindInt, Value: "42"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	dups, err := s.Put(Entry{Name: "second", Kind: types.KindString, Value: "same-token"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(dups) != 1 || dups[0] != "first" {
		t.Fatalf("dups = %v", dups)
	}

	// Same digits, different kind: never a duplicate.
	dups, err = s.Put(Entry{Name: "fortytwo", Kind: types.KindString, Value: "42"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("cross-kind dups = %v", dups)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.yaml")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	when := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Name: "s", Kind: types.KindString, Value: "text"},
		{Name: "i", Kind: types.KindInt, Value: "-7"},
		{Name: "b", Kind: types.KindBool, Value: "true"},
		{Name: "f", Kind: types.KindFloat, Value: "2.5"},
		{Name: "d", Kind: types.KindDate, Value: when.Format(time.RFC3339)},
		{Name: "bin", Kind: types.KindBinary, Value: "3q2+7w=="},
	}
	for _, e := range entries {
		if _, err := s.Put(e); err != nil {
			t.Fatalf("put %s: %v", e.Name, err)
		}
	}
	if err := s.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %o", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded.Entries) != len(entries) {
		t.Fatalf("entries = %d", len(loaded.Entries))
	}
	for _, e := range loaded.Entries {
		if _, err := e.Decode(); err != nil {
			t.Fatalf("decode %s: %v", e.Name, err)
		}
	}
}

func TestDecodeRejectsBadEncodings(t *testing.T) {
	bad := []Entry{
		{Name: "i", Kind: types.KindInt, Value: "not-a-number"},
		{Name: "d", Kind: types.KindDate, Value: "yesterday"},
		{Name: "bin", Kind: types.KindBinary, Value: "!!!"},
		{Name: "l", Kind: types.KindList, Value: "[]"},
	}
	for _, e := range bad {
		if _, err := e.Decode(); err == nil {
			t.Fatalf("%s: expected decode error", e.Name)
		}
	}
}

func TestDecodedEntryRendersRedacted(t *testing.T) {
	e := Entry{
		Name:     "masked",
		Kind:     types.KindString,
		Value:    "abcdefgh",
		Template: "{{mask_partial(secret_string, l=2, r=2)}}",
	}
	v, err := e.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := v.DisplayString(); got != "ab****gh" {
		t.Fatalf("display = %q", got)
	}
	plain := Entry{Name: "p", Kind: types.KindString, Value: "raw-material"}
	pv, err := plain.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out := pv.DisplayString(); strings.Contains(out, "raw-material") {
		t.Fatalf("display leaked: %q", out)
	}
}

func TestDeleteAndNames(t *testing.T) {
	s := tempStore(t)
	for _, n := range []string{"a", "b", "c"} {
		if _, err := s.Put(Entry{Name: n, Kind: types.KindString, Value: n + n}); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := s.Delete("b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete("b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Fatalf("names = %v", names)
	}
}
