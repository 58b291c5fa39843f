// Package storage appends JSON-line records to date-stamped files. The
// dashboard uses it as the AI-exchange audit trail: one line per provider
// round trip, written off the request path.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Writer appends records asynchronously. Records are queued on a buffered
// channel and written by a single goroutine; a full buffer drops the
// record rather than stalling the caller.
type Writer struct {
	dir       string
	maxSizeMB int

	recordCh chan any
	done     chan struct{}
	wg       sync.WaitGroup

	mu          sync.Mutex
	currentDate string
	out         *lumberjack.Logger
}

// NewWriter creates a writer rooted at dir and starts its write loop.
func NewWriter(dir string, bufferSize, maxSizeMB int) *Writer {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 50
	}
	w := &Writer{
		dir:       dir,
		maxSizeMB: maxSizeMB,
		recordCh:  make(chan any, bufferSize),
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.writeLoop()
	return w
}

// Write queues a record without blocking.
func (w *Writer) Write(record any) error {
	select {
	case <-w.done:
		return fmt.Errorf("writer is closed")
	default:
	}
	select {
	case w.recordCh <- record:
		return nil
	default:
		slog.Warn("audit write buffer full, dropping record", "dir", w.dir)
		return fmt.Errorf("buffer full")
	}
}

// Close stops the write loop and flushes queued records, giving up after a
// few seconds so shutdown never hangs on a sick disk.
func (w *Writer) Close() error {
	close(w.done)
	w.wg.Wait()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case record := <-w.recordCh:
			w.writeRecord(record)
		case <-timeout:
			slog.Warn("audit writer close timeout, some records may be lost", "dir", w.dir)
			return w.closeOut()
		default:
			return w.closeOut()
		}
	}
}

func (w *Writer) closeOut() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.out != nil {
		return w.out.Close()
	}
	return nil
}

func (w *Writer) writeLoop() {
	defer w.wg.Done()
	for {
		select {
		case record := <-w.recordCh:
			w.writeRecord(record)
		case <-w.done:
			return
		}
	}
}

func (w *Writer) writeRecord(record any) {
	data, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to marshal audit record", "error", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	date := time.Now().UTC().Format("2006-01-02")
	if w.out == nil || date != w.currentDate {
		if err := w.rotateForDate(date); err != nil {
			slog.Error("failed to open audit file", "error", err, "dir", w.dir)
			return
		}
	}

	if _, err := w.out.Write(append(data, '\n')); err != nil {
		slog.Error("failed to write audit record", "error", err)
	}
}

func (w *Writer) rotateForDate(date string) error {
	if w.out != nil {
		_ = w.out.Close()
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	w.out = &lumberjack.Logger{
		Filename:  filepath.Join(w.dir, date+".jsonl"),
		MaxSize:   w.maxSizeMB,
		MaxAge:    30,
		LocalTime: false,
	}
	w.currentDate = date
	return nil
}
