// Package activity keeps an append-only JSONL record of task mutations.
package activity

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/filelock"
)

const (
	logFileMode = 0o600
	// MaxEntries bounds the log; the oldest entries are dropped beyond it.
	MaxEntries = 10000
)

// Actions recorded in the log.
const (
	ActionCreate   = "create"
	ActionEdit     = "edit"
	ActionComplete = "complete"
	ActionReopen   = "reopen"
	ActionCancel   = "cancel"
	ActionDelete   = "delete"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionRegister = "register"
)

// Entry represents a single activity log entry.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	TaskID    string    `json:"task_id,omitempty"`
	Detail    string    `json:"detail"`
}

// Log appends entries to a JSONL file. The zero value discards entries.
type Log struct {
	path string
	max  int
	now  func() time.Time
}

// New returns a Log writing to path.
func New(path string) *Log {
	return &Log{path: path, max: MaxEntries, now: time.Now}
}

// Append writes entry and truncates the file to the newest entries.
func (l *Log) Append(entry Entry) error {
	if l == nil || l.path == "" {
		return nil
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling log entry: %w", err)
	}

	return filelock.With(l.path, func() error {
		f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode) //nolint:gosec // path from config dir
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		if _, err := f.Write(append(data, '\n')); err != nil {
			_ = f.Close()
			return fmt.Errorf("writing log entry: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		_ = l.truncate()
		return nil
	})
}

// Record appends an entry stamped with the current time. Errors are
// discarded: logging never fails a command.
func (l *Log) Record(action, taskID, detail string) {
	if l == nil {
		return
	}
	_ = l.Append(Entry{Timestamp: l.now(), Action: action, TaskID: taskID, Detail: detail})
}

// Recent returns up to n of the newest entries, oldest first. Malformed
// lines are skipped.
func (l *Log) Recent(n int) ([]Entry, error) {
	if l == nil || l.path == "" {
		return nil, nil
	}
	var lines []string
	err := filelock.WithShared(l.path, func() error {
		var err error
		lines, err = l.lines()
		return err
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		var e Entry
		if json.Unmarshal([]byte(line), &e) == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (l *Log) lines() ([]string, error) {
	f, err := os.Open(l.path) //nolint:gosec // trusted path
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// truncate rewrites the log keeping only the newest max entries.
func (l *Log) truncate() error {
	lines, err := l.lines()
	if err != nil {
		return err
	}
	if len(lines) <= l.max {
		return nil
	}
	lines = lines[len(lines)-l.max:]

	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return os.WriteFile(l.path, []byte(buf.String()), logFileMode)
}
