package roster

import (
	"context"
	"maps"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// memoryStore 是按分区保存数据的内存实现，记录每次读写的分区
type memoryStore struct {
	shifts    map[string][]*domain.Shift
	requests  map[string]map[string]string
	scheduled map[string]map[string]bool
	display   map[string]map[string]string

	reads  []string
	writes []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		shifts:    make(map[string][]*domain.Shift),
		requests:  make(map[string]map[string]string),
		scheduled: make(map[string]map[string]bool),
		display:   make(map[string]map[string]string),
	}
}

func (s *memoryStore) GetShiftsByMonth(_ context.Context, year, month int) ([]*domain.Shift, error) {
	p := domain.MonthPrefix(year, month)
	s.reads = append(s.reads, p)
	return s.shifts[p], nil
}

func (s *memoryStore) SaveShiftsForMonth(_ context.Context, year, month int, shifts []*domain.Shift) error {
	p := domain.MonthPrefix(year, month)
	s.writes = append(s.writes, "shifts:"+p)
	s.shifts[p] = shifts
	return nil
}

func (s *memoryStore) GetDayOffRequests(_ context.Context, year, month int) (map[string]string, error) {
	return maps.Clone(s.requests[domain.MonthPrefix(year, month)]), nil
}

func (s *memoryStore) SaveDayOffRequests(_ context.Context, year, month int, requests map[string]string) error {
	p := domain.MonthPrefix(year, month)
	s.writes = append(s.writes, "requests:"+p)
	s.requests[p] = requests
	return nil
}

func (s *memoryStore) GetScheduledDayOffs(_ context.Context, year, month int) (map[string]bool, error) {
	return maps.Clone(s.scheduled[domain.MonthPrefix(year, month)]), nil
}

func (s *memoryStore) SaveScheduledDayOffs(_ context.Context, year, month int, scheduled map[string]bool) error {
	s.scheduled[domain.MonthPrefix(year, month)] = scheduled
	return nil
}

func (s *memoryStore) GetDisplayTexts(_ context.Context, year, month int) (map[string]string, error) {
	return maps.Clone(s.display[domain.MonthPrefix(year, month)]), nil
}

func (s *memoryStore) SaveDisplayTexts(_ context.Context, year, month int, texts map[string]string) error {
	s.display[domain.MonthPrefix(year, month)] = texts
	return nil
}
