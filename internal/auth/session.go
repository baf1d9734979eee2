package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/twiced-technology-gmbh/taskflow/internal/filelock"
)

const sessionFileMode = 0o600

// Session is the persisted login of the local user.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// sessionFile reads and writes a session under an exclusive file lock. An
// empty path keeps no session, which is how the HTTP API runs.
type sessionFile struct {
	path string
}

// load returns the stored session, or nil when there is none.
func (f sessionFile) load() (*Session, error) {
	if f.path == "" {
		return nil, nil
	}
	var s *Session
	err := filelock.WithShared(f.path, func() error {
		data, err := os.ReadFile(f.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		var decoded Session
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Errorf("parsing session file: %w", err)
		}
		s = &decoded
		return nil
	})
	return s, err
}

func (f sessionFile) save(s Session) error {
	if f.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return filelock.With(f.path, func() error {
		return os.WriteFile(f.path, data, sessionFileMode)
	})
}

func (f sessionFile) clear() error {
	if f.path == "" {
		return nil
	}
	return filelock.With(f.path, func() error {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	})
}
