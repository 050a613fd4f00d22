package repository

import (
	"database/sql"

	"device_control"

	"github.com/spf13/afero"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	Upsert(username, hash string) error
	GetByUsername(username string) (*device_control.User, error)
}

// SessionRepo persists the whole session table as one snapshot. Every load
// re-reads storage; every save overwrites the previous snapshot.
type SessionRepo interface {
	Load() (map[string]device_control.Session, error)
	Save(sessions map[string]device_control.Session) error
}

// HistoryRepo is the append-only binary access log.
type HistoryRepo interface {
	Append(rec device_control.HistoryRecord) error
	Scan(start, end uint32) ([]device_control.HistoryRecord, error)
}

// FilesRepo manages the public directory uploads land in.
type FilesRepo interface {
	Create(name string) (afero.File, error)
	List() ([]device_control.FileInfo, error)
	Remove(name string) error
	Exists(name string) (bool, error)
	Usage() (device_control.FSUsage, error)
}

type Repository struct {
	Auth     Authorization
	Sessions SessionRepo
	History  HistoryRepo
	Files    FilesRepo
}

// NewRepository wires all stores over the shared database handle and
// filesystem rooted at dataDir.
func NewRepository(db *sql.DB, fs afero.Fs, dataDir string, quota int64) (*Repository, error) {
	files, err := NewFilesRepo(fs, dataDir, quota)
	if err != nil {
		return nil, err
	}
	return &Repository{
		Auth:     NewUserRepository(db),
		Sessions: NewSessionFile(fs, dataDir),
		History:  NewHistoryFile(fs, dataDir),
		Files:    files,
	}, nil
}
