package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"device_control"
	"device_control/internal/service"
)

func TestListEvents(t *testing.T) {
	sched := &mockScheduler{listResp: []device_control.ScheduledEvent{
		{GPIO: 25, State: 1, Time: 100, ID: 0},
		{GPIO: 33, State: 0, Time: 200, ID: 4},
	}}
	r := newTestRouter(&service.Service{Scheduler: sched})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	var events []device_control.ScheduledEvent
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(events) != 2 || events[1].ID != 4 {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestInsertEvent_Success(t *testing.T) {
	sched := &mockScheduler{insertEvent: device_control.ScheduledEvent{GPIO: 25, State: 1, Time: 300, ID: 2}}
	r := newTestRouter(&service.Service{Scheduler: sched})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events",
		bytes.NewBufferString(`{"gpio":25,"state":1,"time":300}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if sched.insertCalls != 1 || sched.lastGpio != 25 || sched.lastState != 1 || sched.lastTime != 300 {
		t.Fatalf("wrong insert args: %+v", sched)
	}
	var ev device_control.ScheduledEvent
	if err := json.Unmarshal(w.Body.Bytes(), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.ID != 2 {
		t.Fatalf("echo missing slot id: %+v", ev)
	}
}

func TestInsertEvent_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid gpio", service.ErrInvalidGpio, http.StatusBadRequest},
		{"invalid state", service.ErrInvalidState, http.StatusBadRequest},
		{"time in past", service.ErrTimeInPast, http.StatusBadRequest},
		{"table full", service.ErrTableFull, http.StatusInsufficientStorage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Scheduler: &mockScheduler{insertErr: tc.err}})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/events",
				bytes.NewBufferString(`{"gpio":13,"state":5,"time":1}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.want {
				t.Fatalf("status=%d want %d body=%s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestInsertEvent_MalformedBody(t *testing.T) {
	sched := &mockScheduler{}
	r := newTestRouter(&service.Service{Scheduler: sched})

	for _, body := range []string{`not json`, `{"gpio":25}`, `{"state":1,"time":10}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status=%d", body, w.Code)
		}
	}
	if sched.insertCalls != 0 {
		t.Fatalf("malformed bodies reached the scheduler %d times", sched.insertCalls)
	}
}

func TestInsertEvent_OversizedBody(t *testing.T) {
	sched := &mockScheduler{}
	r := newTestRouter(&service.Service{Scheduler: sched})

	big := `{"gpio":25,"state":1,"time":300,"pad":"` + strings.Repeat("x", 400) + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString(big))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d want 413", w.Code)
	}
	if sched.insertCalls != 0 {
		t.Fatal("oversized body reached the scheduler")
	}
}

func TestDeleteEvent(t *testing.T) {
	sched := &mockScheduler{}
	r := newTestRouter(&service.Service{Scheduler: sched})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/events/5", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if sched.lastDelete != 5 {
		t.Fatalf("deleted id %d, want 5", sched.lastDelete)
	}

	// Out of range is reported by the scheduler.
	sched.deleteErr = service.ErrOutOfRange
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/events/99", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("out of range: status=%d", w.Code)
	}

	// Non-numeric id never reaches the scheduler.
	before := sched.deleteCalls
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/events/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id: status=%d", w.Code)
	}
	if sched.deleteCalls != before {
		t.Fatal("non-numeric id reached the scheduler")
	}
}
