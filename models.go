package device_control

// Pin states as the hardware expects them.
const (
	StateLow  = 0
	StateHigh = 1
)

// ScheduledEvent is one pending GPIO change. The slot index inside the event
// table doubles as its public identifier, so events carry the ID explicitly
// only when rendered over the API.
type ScheduledEvent struct {
	GPIO  int    `json:"gpio"`
	State int    `json:"state"`
	Time  uint64 `json:"time"` // fire time, seconds since boot
	ID    int    `json:"id"`
}

// Session is one issued admin session, keyed by device identity.
type Session struct {
	Token string `json:"token"`
	Last  uint64 `json:"last"` // last successful use, milliseconds since boot
}

// HistoryRecord is one access-history entry. On disk it is a fixed 9-byte
// little-endian record: uint32 user, uint8 state, uint32 epochtime.
type HistoryRecord struct {
	User      uint32 `json:"user"`
	State     uint8  `json:"state"`
	EpochTime uint32 `json:"epochtime"`
}

// FileInfo describes one entry of the public directory.
type FileInfo struct {
	Name  string `json:"name"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"isDir"`
}

// FSUsage reports storage consumption of the public directory.
type FSUsage struct {
	TotalBytes int64 `json:"totalBytes"`
	UsedBytes  int64 `json:"usedBytes"`
	FreeBytes  int64 `json:"freeBytes"`
}

// User is an account allowed to administer the device.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
