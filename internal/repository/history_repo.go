package repository

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"device_control"

	"github.com/spf13/afero"
)

const (
	historyFileName = "history.bin"

	// One record on disk: uint32 user, uint8 state, uint32 epochtime,
	// little-endian, no header or footer.
	historyRecordSize = 9
)

// HistoryFile is the flat append-only binary access log. Appends take the
// write lock; scans share the read lock so a query never observes a
// half-written record.
type HistoryFile struct {
	mu   sync.RWMutex
	fs   afero.Fs
	path string
}

func NewHistoryFile(fs afero.Fs, dataDir string) *HistoryFile {
	return &HistoryFile{fs: fs, path: path.Join(dataDir, historyFileName)}
}

var _ HistoryRepo = (*HistoryFile)(nil)

func encodeRecord(rec device_control.HistoryRecord) []byte {
	buf := make([]byte, historyRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], rec.User)
	buf[4] = rec.State
	binary.LittleEndian.PutUint32(buf[5:9], rec.EpochTime)
	return buf
}

func decodeRecord(buf []byte) device_control.HistoryRecord {
	return device_control.HistoryRecord{
		User:      binary.LittleEndian.Uint32(buf[0:4]),
		State:     buf[4],
		EpochTime: binary.LittleEndian.Uint32(buf[5:9]),
	}
}

// Append writes one record to the end of the log.
func (r *HistoryFile) Append(rec device_control.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := r.fs.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(encodeRecord(rec)); err != nil {
		return fmt.Errorf("append history record: %w", err)
	}
	return nil
}

// Scan walks the whole log and returns records with start <= epochtime <= end.
// A missing log yields an empty result; truncated trailing bytes are treated
// as end-of-stream.
func (r *HistoryFile) Scan(start, end uint32) ([]device_control.HistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, err := r.fs.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []device_control.HistoryRecord{}, nil
		}
		return nil, fmt.Errorf("open history log: %w", err)
	}
	defer f.Close()

	out := make([]device_control.HistoryRecord, 0, 64)
	buf := make([]byte, historyRecordSize)
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			// io.EOF at a record boundary, io.ErrUnexpectedEOF on a
			// truncated tail: both mean we are done.
			break
		}
		rec := decodeRecord(buf)
		if rec.EpochTime >= start && rec.EpochTime <= end {
			out = append(out, rec)
		}
	}
	return out, nil
}
