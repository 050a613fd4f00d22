package handlers

import (
	"context"
	"io"
	"time"

	"device_control"
	"device_control/internal/clock"
	"device_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service mocks ----

type mockScheduler struct {
	insertEvent device_control.ScheduledEvent
	insertErr   error
	deleteErr   error
	listResp    []device_control.ScheduledEvent

	insertCalls int
	deleteCalls int
	lastGpio    int
	lastState   int
	lastTime    uint64
	lastDelete  int
}

func (m *mockScheduler) Insert(gpioPin int, fireAt uint64, state int) (device_control.ScheduledEvent, error) {
	m.insertCalls++
	m.lastGpio = gpioPin
	m.lastTime = fireAt
	m.lastState = state
	return m.insertEvent, m.insertErr
}
func (m *mockScheduler) Delete(id int) error {
	m.deleteCalls++
	m.lastDelete = id
	return m.deleteErr
}
func (m *mockScheduler) List() []device_control.ScheduledEvent { return m.listResp }
func (m *mockScheduler) Tick()                                 {}
func (m *mockScheduler) Run(ctx context.Context, tick time.Duration) {}

type mockSessions struct {
	deviceID   string
	loginToken string
	loginErr   error
	checkOK    bool

	lastLoginUser string
	lastLoginPass string
	lastCheckDev  string
	lastCheckTok  string
}

func (m *mockSessions) Login(username, password string) (string, string, error) {
	m.lastLoginUser = username
	m.lastLoginPass = password
	if m.loginErr != nil {
		return "", "", m.loginErr
	}
	return m.deviceID, m.loginToken, nil
}
func (m *mockSessions) Check(deviceID, token string) bool {
	m.lastCheckDev = deviceID
	m.lastCheckTok = token
	return m.checkOK
}
func (m *mockSessions) DeviceID() string { return m.deviceID }

type mockUploads struct {
	filename string
	err      error

	lastContentType string
	consumed        []byte
}

func (m *mockUploads) Store(contentType string, body io.Reader) (string, error) {
	m.lastContentType = contentType
	m.consumed, _ = io.ReadAll(body)
	return m.filename, m.err
}

type mockHistory struct {
	appendRec device_control.HistoryRecord
	appendErr error
	listResp  []device_control.HistoryRecord
	listErr   error

	recorded  int
	lastStart uint32
	lastEnd   uint32
}

func (m *mockHistory) Record(user uint32, state uint8) { m.recorded++ }
func (m *mockHistory) Append(user uint32, state uint8) (device_control.HistoryRecord, error) {
	return m.appendRec, m.appendErr
}
func (m *mockHistory) List(start, end uint32) ([]device_control.HistoryRecord, error) {
	m.lastStart = start
	m.lastEnd = end
	return m.listResp, m.listErr
}

type mockAuth struct {
	token    string
	tokenErr error
	parseID  int
	parseErr error

	lastParsed string
}

func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	return m.token, m.tokenErr
}
func (m *mockAuth) ParseToken(accessToken string) (int, error) {
	m.lastParsed = accessToken
	return m.parseID, m.parseErr
}

// newTestRouter builds a router over the given service composition with a
// manual clock and no logger.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, clock.NewManual(time.Time{}), nil)
	return h.InitRoutes()
}
