package service

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

const deviceIDFileName = "device_id"

// ResolveDeviceID returns the stable device identity. A configured value
// wins; otherwise an identity is generated once and persisted so it survives
// restarts, standing in for the hardware serial the device would use.
func ResolveDeviceID(fs afero.Fs, dataDir, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	idPath := path.Join(dataDir, deviceIDFileName)
	data, err := afero.ReadFile(fs, idPath)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	// 12 uppercase hex characters, the shape of a MAC-derived serial.
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:12]
	if err := afero.WriteFile(fs, idPath, []byte(id+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}
