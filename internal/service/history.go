package service

import (
	"device_control"
	"device_control/internal/clock"
	"device_control/internal/logger"
	"device_control/internal/repository"
)

type HistoryService struct {
	repo repository.HistoryRepo
	clk  clock.Clock
	log  *logger.Logger
}

func NewHistoryService(repo repository.HistoryRepo, clk clock.Clock, log *logger.Logger) *HistoryService {
	return &HistoryService{repo: repo, clk: clk, log: log}
}

// Record appends best-effort: a storage failure is logged and dropped so
// control-loop callers never stall on history I/O. Callers needing the
// result should use Append.
func (s *HistoryService) Record(user uint32, state uint8) {
	if _, err := s.Append(user, state); err != nil && s.log != nil {
		s.log.Warnw("history_record_dropped", "user", user, "state", state, "err", err)
	}
}

// Append writes one record stamped with the current epoch time.
func (s *HistoryService) Append(user uint32, state uint8) (device_control.HistoryRecord, error) {
	rec := device_control.HistoryRecord{
		User:      user,
		State:     state,
		EpochTime: uint32(s.clk.Now().Unix()),
	}
	if err := s.repo.Append(rec); err != nil {
		return device_control.HistoryRecord{}, err
	}
	return rec, nil
}

// List returns records with start <= epochtime <= end.
func (s *HistoryService) List(start, end uint32) ([]device_control.HistoryRecord, error) {
	return s.repo.Scan(start, end)
}
