package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arjun-29/veil/internal/types"
)

func TestRecordAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	trail, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	trail.Record(ActionWrap, "db_password", types.KindString, "<redacted:string>")
	trail.Record(ActionUnwrap, "db_password", types.KindString, "")
	if err := trail.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trail: %v", err)
	}
	defer f.Close()

	var events []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev map[string]any
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("line %q: %v", sc.Text(), err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d", len(events))
	}
	if events[0]["action"] != ActionWrap || events[0]["kind"] != "string" {
		t.Fatalf("first event = %v", events[0])
	}
	if events[0]["id"] == events[1]["id"] {
		t.Fatalf("event ids not unique")
	}
	if events[1]["action"] != ActionUnwrap {
		t.Fatalf("second event = %v", events[1])
	}
	for _, ev := range events {
		if _, ok := ev["ts"]; !ok {
			t.Fatalf("event missing timestamp: %v", ev)
		}
	}
}

func TestFileModeRestrictsAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	trail.Record(ActionHash, "k", types.KindBinary, "")
	_ = trail.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm()&0o077 != 0 {
		t.Fatalf("mode = %o", info.Mode().Perm())
	}
}

func TestNilTrailDropsEvents(t *testing.T) {
	var trail *Trail
	trail.Record(ActionWrap, "x", types.KindInt, "")
	if err := trail.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNoteStaysRedacted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	trail, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	trail.Record(ActionWrap, "token", types.KindString, "<redacted:string>")
	_ = trail.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "<redacted:string>") {
		t.Fatalf("trail = %s", data)
	}
}
