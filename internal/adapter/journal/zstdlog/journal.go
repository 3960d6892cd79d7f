// Package zstdlog journals completed turns as zstd-compressed JSONL,
// one file per hour.
package zstdlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"burrowverse/internal/app/ports"
	"burrowverse/internal/domain/creature"

	"github.com/klauspost/compress/zstd"
)

// Writer appends JSON lines to an hourly-rotated compressed file.
// Every line is flushed so a crash loses at most the line being
// written.
type Writer struct {
	baseDir string
	prefix  string
	now     func() time.Time

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func NewWriter(baseDir, prefix string, now func() time.Time) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{baseDir: baseDir, prefix: prefix, now: now}
}

func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := w.pathForHour(hour)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curHour = hour
	return nil
}

func (w *Writer) closeLocked() error {
	var encErr error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		encErr = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return encErr
}

func (w *Writer) pathForHour(hour string) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
}

// eventLine is one journal line: the event plus the run it belongs to,
// mirroring the shape of a turn_events row.
type eventLine struct {
	RunID string         `json:"run_id"`
	Event creature.Event `json:"event"`
}

// Journal streams each turn's events to disk, one line per event. A
// failed write is logged and dropped; the scheduler never waits on the
// journal.
type Journal struct {
	w      *Writer
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger, now func() time.Time) *Journal {
	return &Journal{w: NewWriter(dir, "events", now), logger: logger}
}

func (j *Journal) TurnCompleted(summary ports.TurnSummary) {
	for i := range summary.Events {
		if err := j.w.Write(eventLine{RunID: summary.RunID, Event: summary.Events[i]}); err != nil {
			j.warn("turn journal write failed", slog.Uint64("turn", summary.Turn), slog.Any("err", err))
			return
		}
	}
}

func (j *Journal) Close() error {
	return j.w.Close()
}

func (j *Journal) warn(msg string, args ...any) {
	if j.logger != nil {
		j.logger.Warn(msg, args...)
	}
}
