package repository

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
)

func newTestFiles(t *testing.T) (*FilesDir, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	repo, err := NewFilesRepo(fs, "data", 1000)
	if err != nil {
		t.Fatalf("files repo: %v", err)
	}
	return repo, fs
}

func TestFilesDir_CreateListRemove(t *testing.T) {
	t.Parallel()
	repo, _ := newTestFiles(t)

	f, err := repo.Create("a.txt")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()

	files, err := repo.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 1 || files[0].Name != "a.txt" || files[0].Size != 5 || files[0].IsDir {
		t.Fatalf("unexpected listing: %+v", files)
	}

	ok, err := repo.Exists("a.txt")
	if err != nil || !ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}

	if err := repo.Remove("a.txt"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := repo.Remove("a.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second remove: expected ErrNotFound, got %v", err)
	}
}

func TestFilesDir_RejectsEscapingNames(t *testing.T) {
	t.Parallel()
	repo, _ := newTestFiles(t)

	for _, name := range []string{"", "..", "../x", "a/b", `a\b`, "..hidden.."} {
		if _, err := repo.Create(name); !errors.Is(err, ErrBadName) {
			t.Fatalf("create %q: expected ErrBadName, got %v", name, err)
		}
		if err := repo.Remove(name); !errors.Is(err, ErrBadName) {
			t.Fatalf("remove %q: expected ErrBadName, got %v", name, err)
		}
	}
}

func TestFilesDir_Usage(t *testing.T) {
	t.Parallel()
	repo, _ := newTestFiles(t)

	for name, content := range map[string]string{"a.bin": "1234", "b.bin": "123456"} {
		f, err := repo.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		_ = f.Close()
	}

	usage, err := repo.Usage()
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.TotalBytes != 1000 || usage.UsedBytes != 10 || usage.FreeBytes != 990 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}
