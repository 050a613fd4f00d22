package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"device_control"

	"github.com/spf13/afero"
)

const sessionFileName = "sessions.json"

// SessionFile stores the session table as a single JSON snapshot:
// deviceID -> {token, last}. The whole table is rewritten on every save,
// matching the single-admin write pattern of the device.
type SessionFile struct {
	fs   afero.Fs
	path string
}

func NewSessionFile(fs afero.Fs, dataDir string) *SessionFile {
	return &SessionFile{fs: fs, path: path.Join(dataDir, sessionFileName)}
}

var _ SessionRepo = (*SessionFile)(nil)

// Load reads the snapshot fresh from storage. A missing or unreadable file
// yields an empty table, the way a first boot would.
func (r *SessionFile) Load() (map[string]device_control.Session, error) {
	sessions := make(map[string]device_control.Session)
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return sessions, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		// Corrupt snapshot: start over rather than lock the admin out forever.
		return make(map[string]device_control.Session), nil
	}
	return sessions, nil
}

// Save overwrites the snapshot with the full table.
func (r *SessionFile) Save(sessions map[string]device_control.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("encode session table: %w", err)
	}
	if err := afero.WriteFile(r.fs, r.path, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
