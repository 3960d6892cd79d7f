package zstdlog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"

	"github.com/klauspost/compress/zstd"
)

func readLines(t *testing.T, path string) [][]byte {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var lines [][]byte
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		lines = append(lines, bytes.Clone(sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan journal: %v", err)
	}
	return lines
}

func TestJournalWritesLinePerEvent(t *testing.T) {
	dir := t.TempDir()
	now := func() time.Time { return time.Unix(1700000000, 0) }
	j := New(dir, nil, now)

	j.TurnCompleted(ports.TurnSummary{
		RunID:    "run_1",
		Turn:     1,
		Counters: ports.TurnCounters{Moves: 3},
		Events: []creature.Event{
			{Type: creature.EventAgentMoved, Turn: 1, OccurredAt: time.Unix(1700000000, 0), Payload: map[string]any{"agent_id": "agt_000002"}},
			{Type: creature.EventTurnCompleted, Turn: 1, OccurredAt: time.Unix(1700000000, 0)},
		},
	})
	// A turn with no events writes nothing.
	j.TurnCompleted(ports.TurnSummary{RunID: "run_1", Turn: 2})
	j.TurnCompleted(ports.TurnSummary{
		RunID:  "run_1",
		Turn:   3,
		Events: []creature.Event{{Type: creature.EventPredation, Turn: 3, OccurredAt: time.Unix(1700000010, 0)}},
	})
	if err := j.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	path := filepath.Join(dir, "events-2023-11-14-22.jsonl.zst")
	lines := readLines(t, path)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var first eventLine
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first.RunID != "run_1" || first.Event.Type != creature.EventAgentMoved {
		t.Fatalf("first line = %+v", first)
	}
	if first.Event.Payload["agent_id"] != "agt_000002" {
		t.Fatalf("first payload = %+v", first.Event.Payload)
	}

	var last eventLine
	if err := json.Unmarshal(lines[2], &last); err != nil {
		t.Fatalf("unmarshal last line: %v", err)
	}
	if last.Event.Type != creature.EventPredation || last.Event.Turn != 3 {
		t.Fatalf("last line = %+v", last)
	}
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	current := time.Unix(1700000000, 0)
	w := NewWriter(dir, "events", func() time.Time { return current })

	if err := w.Write(map[string]int{"turn": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	current = current.Add(time.Hour)
	if err := w.Write(map[string]int{"turn": 2}); err != nil {
		t.Fatalf("write after rotation: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, name := range []string{"events-2023-11-14-22.jsonl.zst", "events-2023-11-14-23.jsonl.zst"} {
		lines := readLines(t, filepath.Join(dir, name))
		if len(lines) != 1 {
			t.Fatalf("%s: expected 1 line, got %d", name, len(lines))
		}
	}
}

func TestWriterAppendsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	now := func() time.Time { return time.Unix(1700000000, 0) }

	w := NewWriter(dir, "events", now)
	if err := w.Write(map[string]int{"turn": 1}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	w = NewWriter(dir, "events", now)
	if err := w.Write(map[string]int{"turn": 2}); err != nil {
		t.Fatalf("write after reopen: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close after reopen: %v", err)
	}

	lines := readLines(t, filepath.Join(dir, "events-2023-11-14-22.jsonl.zst"))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after reopen, got %d", len(lines))
	}
}
