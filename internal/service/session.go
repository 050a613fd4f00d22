package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"time"

	"device_control"
	"device_control/internal/clock"
	"device_control/internal/logger"
	"device_control/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// SessionTimeout is the sliding-window expiry: a session dies once it has
// been unused for longer than this.
const SessionTimeout = 5 * time.Minute

const tokenLength = 32 // hex characters

var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionService implements cookie-based admin sessions. The table is
// reloaded from storage on every check and the whole snapshot is rewritten
// on every mutation; the mutex keeps each load-modify-save atomic.
type SessionService struct {
	mu       sync.Mutex
	repo     repository.SessionRepo
	users    repository.Authorization
	clk      clock.Clock
	log      *logger.Logger
	deviceID string
}

func NewSessionService(repo repository.SessionRepo, users repository.Authorization, clk clock.Clock, log *logger.Logger, deviceID string) *SessionService {
	return &SessionService{repo: repo, users: users, clk: clk, log: log, deviceID: deviceID}
}

// DeviceID returns the stable identity sessions are keyed by.
func (s *SessionService) DeviceID() string { return s.deviceID }

// newToken returns 32 uppercase hex characters from a CSPRNG.
func newToken() (string, error) {
	buf := make([]byte, tokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return fmt.Sprintf("%X", buf), nil
}

// Login checks the credentials against the user store and, on success,
// issues a fresh session for this device, overwriting any previous one.
func (s *SessionService) Login(username, password string) (string, string, error) {
	u, err := s.users.GetByUsername(username)
	if err != nil {
		return "", "", err
	}
	if u == nil {
		return "", "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", "", ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.repo.Load()
	if err != nil {
		return "", "", err
	}
	sessions[s.deviceID] = device_control.Session{Token: token, Last: s.clk.Millis()}
	if err := s.repo.Save(sessions); err != nil {
		return "", "", err
	}
	return s.deviceID, token, nil
}

// Check validates a presented token with sliding expiry: a hit refreshes the
// session's last-seen timestamp and re-persists the table. Expired entries
// are not removed; they stay on disk until the next login overwrites them.
func (s *SessionService) Check(deviceID, token string) bool {
	if deviceID == "" || token == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sessions, err := s.repo.Load()
	if err != nil {
		if s.log != nil {
			s.log.Errorw("session_load_failed", "err", err)
		}
		return false
	}
	sess, ok := sessions[deviceID]
	if !ok || sess.Token != token {
		return false
	}
	now := s.clk.Millis()
	if now-sess.Last > uint64(SessionTimeout/time.Millisecond) {
		return false
	}

	sess.Last = now
	sessions[deviceID] = sess
	if err := s.repo.Save(sessions); err != nil && s.log != nil {
		s.log.Errorw("session_save_failed", "err", err)
	}
	return true
}
