package repository

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"device_control"

	"github.com/spf13/afero"
)

const publicDirName = "public"

var (
	ErrBadName  = errors.New("invalid file name")
	ErrNotFound = errors.New("file not found")
)

// FilesDir manages the public directory that uploads are stored in and the
// file-manager API operates on.
type FilesDir struct {
	fs    afero.Fs
	root  string
	quota int64
}

// NewFilesRepo ensures the public directory exists under dataDir. quota is
// the advertised capacity for usage reporting.
func NewFilesRepo(fs afero.Fs, dataDir string, quota int64) (*FilesDir, error) {
	root := path.Join(dataDir, publicDirName)
	if err := fs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create public dir: %w", err)
	}
	return &FilesDir{fs: fs, root: root, quota: quota}, nil
}

var _ FilesRepo = (*FilesDir)(nil)

// validName rejects empty names and anything that could escape the public
// directory.
func validName(name string) bool {
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

// Create opens name for writing, truncating any previous content. The caller
// owns the handle and must close it on every exit path.
func (d *FilesDir) Create(name string) (afero.File, error) {
	if !validName(name) {
		return nil, ErrBadName
	}
	return d.fs.OpenFile(path.Join(d.root, name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
}

// List returns the entries of the public directory.
func (d *FilesDir) List() ([]device_control.FileInfo, error) {
	infos, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		return nil, fmt.Errorf("read public dir: %w", err)
	}
	out := make([]device_control.FileInfo, 0, len(infos))
	for _, fi := range infos {
		out = append(out, device_control.FileInfo{
			Name:  fi.Name(),
			Size:  fi.Size(),
			IsDir: fi.IsDir(),
		})
	}
	return out, nil
}

// Exists reports whether name is present in the public directory.
func (d *FilesDir) Exists(name string) (bool, error) {
	if !validName(name) {
		return false, ErrBadName
	}
	return afero.Exists(d.fs, path.Join(d.root, name))
}

// Remove deletes name from the public directory.
func (d *FilesDir) Remove(name string) error {
	if !validName(name) {
		return ErrBadName
	}
	target := path.Join(d.root, name)
	ok, err := afero.Exists(d.fs, target)
	if err != nil {
		return fmt.Errorf("stat %q: %w", name, err)
	}
	if !ok {
		return ErrNotFound
	}
	if err := d.fs.Remove(target); err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

// Usage sums file sizes against the configured quota.
func (d *FilesDir) Usage() (device_control.FSUsage, error) {
	infos, err := afero.ReadDir(d.fs, d.root)
	if err != nil {
		return device_control.FSUsage{}, fmt.Errorf("read public dir: %w", err)
	}
	var used int64
	for _, fi := range infos {
		if !fi.IsDir() {
			used += fi.Size()
		}
	}
	free := d.quota - used
	if free < 0 {
		free = 0
	}
	return device_control.FSUsage{TotalBytes: d.quota, UsedBytes: used, FreeBytes: free}, nil
}
