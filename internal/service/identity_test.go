package service

import (
	"regexp"
	"testing"

	"github.com/spf13/afero"
)

func TestResolveDeviceID_ConfiguredValueWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	id, err := ResolveDeviceID(fs, "data", "CAFE00112233")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != "CAFE00112233" {
		t.Fatalf("id = %q", id)
	}
	if ok, _ := afero.Exists(fs, "data/device_id"); ok {
		t.Fatal("configured id must not be persisted")
	}
}

func TestResolveDeviceID_GeneratesOnceAndPersists(t *testing.T) {
	fs := afero.NewMemMapFs()

	first, err := ResolveDeviceID(fs, "data", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !regexp.MustCompile(`^[0-9A-F]{12}$`).MatchString(first) {
		t.Fatalf("generated id %q is not 12 uppercase hex chars", first)
	}

	second, err := ResolveDeviceID(fs, "data", "")
	if err != nil {
		t.Fatalf("resolve again: %v", err)
	}
	if second != first {
		t.Fatalf("identity changed across restarts: %q then %q", first, second)
	}
}
