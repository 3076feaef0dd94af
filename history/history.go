// Package history keeps an append-only JSONL record of completed scans.
// Entries carry scores and metadata but never raw document text, so the log
// itself is safe to retain.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SamuelRCrider/dataguard-go/core"
	"github.com/google/uuid"
)

// defaultRotationSize rotates the log once it passes 100MB.
const defaultRotationSize = 100 * 1024 * 1024

// Entry is one recorded scan.
type Entry struct {
	ScanID             string         `json:"scanId"`
	Timestamp          string         `json:"timestamp"`
	Filename           string         `json:"filename,omitempty"`
	Fingerprint        string         `json:"fingerprint"`
	DeterministicScore int            `json:"deterministicScore"`
	AiScore            *int           `json:"aiScore,omitempty"`
	FusedScore         int            `json:"fusedScore"`
	RiskLevel          core.RiskLevel `json:"riskLevel"`
	FindingCount       int            `json:"findingCount"`
	Cached             bool           `json:"cached"`
}

// Log is a single-writer JSONL scan log with size-based rotation. Writers
// hold the mutex across marshal, rotate check, and flush, so entries never
// interleave.
type Log struct {
	mu           sync.Mutex
	path         string
	file         *os.File
	currentSize  int64
	rotationSize int64
}

// Open creates or appends to the log at path, creating parent directories
// as needed. rotationSize <= 0 selects the default.
func Open(path string, rotationSize int64) (*Log, error) {
	if rotationSize <= 0 {
		rotationSize = defaultRotationSize
	}
	l := &Log{path: path, rotationSize: rotationSize}
	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Log) open() error {
	dir := filepath.Dir(l.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat history log: %w", err)
	}

	l.file = f
	l.currentSize = info.Size()
	return nil
}

// Record appends an entry for a completed scan. Missing scan ids and
// timestamps are filled in. The write is flushed to the OS before Record
// returns.
func (l *Log) Record(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.ScanID == "" {
		entry.ScanID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}

	if err := l.maybeRotate(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	n, err := fmt.Fprintln(l.file, string(data))
	if err != nil {
		return fmt.Errorf("failed to write history entry: %w", err)
	}
	l.currentSize += int64(n)

	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("failed to flush history log: %w", err)
	}
	return nil
}

// FromResult builds an Entry from a scan result.
func FromResult(filename string, result *core.ScanResult) Entry {
	return Entry{
		Filename:           filename,
		Fingerprint:        result.Fingerprint,
		DeterministicScore: result.DeterministicScore,
		AiScore:            result.AiScore,
		FusedScore:         result.FusedScore,
		RiskLevel:          result.RiskLevel,
		FindingCount:       len(result.Findings),
		Cached:             result.Cached,
	}
}

// maybeRotate renames the log aside once it passes the rotation size and
// reopens a fresh file. Caller holds the mutex.
func (l *Log) maybeRotate() error {
	if l.currentSize < l.rotationSize {
		return nil
	}

	l.file.Close()
	rotated := fmt.Sprintf("%s.%s", l.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(l.path, rotated); err != nil {
		return fmt.Errorf("failed to rotate history log: %w", err)
	}
	return l.open()
}

// Recent returns up to n of the most recent entries, newest first. Lines
// that fail to parse are skipped.
func (l *Log) Recent(n int) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to scan history log: %w", err)
	}

	// Newest first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

// Close closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
