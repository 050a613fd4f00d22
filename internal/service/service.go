package service

import (
	"context"
	"io"
	"time"

	"device_control"
	"device_control/internal/clock"
	"device_control/internal/gpio"
	"device_control/internal/logger"
	"device_control/internal/repository"
)

// Scheduler is the fixed-capacity table of pending GPIO changes.
type Scheduler interface {
	Insert(gpioPin int, fireAt uint64, state int) (device_control.ScheduledEvent, error)
	Delete(id int) error
	List() []device_control.ScheduledEvent
	Tick()
	// Run ticks at the given interval until ctx is canceled. Stop via
	// context cancellation in main() for graceful shutdown.
	Run(ctx context.Context, tick time.Duration)
}

// Sessions issues and validates cookie-based admin sessions.
type Sessions interface {
	Login(username, password string) (deviceID, token string, err error)
	Check(deviceID, token string) bool
	DeviceID() string
}

// Uploads consumes a streamed multipart body and stores the file payload.
type Uploads interface {
	Store(contentType string, body io.Reader) (string, error)
}

// History is the append-only access log.
type History interface {
	// Record appends best-effort: storage failure is logged, never returned.
	Record(user uint32, state uint8)
	Append(user uint32, state uint8) (device_control.HistoryRecord, error)
	List(start, end uint32) ([]device_control.HistoryRecord, error)
}

// Authorization issues bearer tokens for API clients.
type Authorization interface {
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

type Service struct {
	Scheduler
	Sessions
	Uploads
	History
	Authorization

	// Files is the public-directory store the file-manager API operates on.
	Files repository.FilesRepo
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, clk clock.Clock, pins gpio.Pins, log *logger.Logger, deviceID, signingKey string) *Service {
	history := NewHistoryService(repos.History, clk, log)
	return &Service{
		Scheduler:     NewSchedulerService(clk, pins, history, log),
		Sessions:      NewSessionService(repos.Sessions, repos.Auth, clk, log, deviceID),
		Uploads:       NewUploadService(repos.Files, log),
		History:       history,
		Authorization: NewAuthService(repos.Auth, signingKey),
		Files:         repos.Files,
	}
}
