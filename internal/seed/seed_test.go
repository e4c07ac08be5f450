package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/utils"
)

type fakeHelpers struct {
	helpers   []*domain.Helper
	usernames map[string]bool
}

func (f *fakeHelpers) GetAllHelpers(context.Context) ([]*domain.Helper, error) {
	return f.helpers, nil
}

func (f *fakeHelpers) CreateHelper(_ context.Context, helper *domain.Helper) error {
	if f.usernames[helper.Username] {
		return &pgconn.PgError{Code: "23505", ConstraintName: "helpers_username_key"}
	}
	f.usernames[helper.Username] = true
	helper.ID = int64(len(f.helpers) + 1)
	helper.IsActive = true
	f.helpers = append(f.helpers, helper)
	return nil
}

type fakeStore struct {
	shifts    map[string][]*domain.Shift
	requests  map[string]map[string]string
	scheduled map[string]map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		shifts:    make(map[string][]*domain.Shift),
		requests:  make(map[string]map[string]string),
		scheduled: make(map[string]map[string]bool),
	}
}

func (s *fakeStore) GetShiftsByMonth(_ context.Context, y, m int) ([]*domain.Shift, error) {
	return s.shifts[domain.MonthPrefix(y, m)], nil
}

func (s *fakeStore) SaveShiftsForMonth(_ context.Context, y, m int, shifts []*domain.Shift) error {
	s.shifts[domain.MonthPrefix(y, m)] = shifts
	return nil
}

func (s *fakeStore) GetDayOffRequests(_ context.Context, y, m int) (map[string]string, error) {
	return s.requests[domain.MonthPrefix(y, m)], nil
}

func (s *fakeStore) SaveDayOffRequests(_ context.Context, y, m int, v map[string]string) error {
	s.requests[domain.MonthPrefix(y, m)] = v
	return nil
}

func (s *fakeStore) GetScheduledDayOffs(_ context.Context, y, m int) (map[string]bool, error) {
	return s.scheduled[domain.MonthPrefix(y, m)], nil
}

func (s *fakeStore) SaveScheduledDayOffs(_ context.Context, y, m int, v map[string]bool) error {
	s.scheduled[domain.MonthPrefix(y, m)] = v
	return nil
}

func (s *fakeStore) GetDisplayTexts(context.Context, int, int) (map[string]string, error) {
	return nil, nil
}

func (s *fakeStore) SaveDisplayTexts(context.Context, int, int, map[string]string) error {
	return nil
}

func TestSeedHelpers(t *testing.T) {
	helpers := &fakeHelpers{usernames: map[string]bool{}}
	s := NewSeeder(helpers, newFakeStore(), "example.com")

	n, err := s.SeedHelpers(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(helpers.helpers) || n == 0 {
		t.Errorf("inserted %d, store has %d", n, len(helpers.helpers))
	}

	if _, err := s.SeedHelpers(context.Background(), 0); err == nil {
		t.Error("expected error for n = 0")
	}
}

func TestSeedShiftsAndDayOffs(t *testing.T) {
	helpers := &fakeHelpers{usernames: map[string]bool{}}
	store := newFakeStore()
	s := NewSeeder(helpers, store, "example.com")

	if _, err := s.SeedShifts(context.Background(), 2026, 6, 10); err == nil {
		t.Error("expected error without helpers")
	}

	if _, err := s.SeedHelpers(context.Background(), 4); err != nil {
		t.Fatal(err)
	}

	shifts, err := s.SeedShifts(context.Background(), 2026, 12, 40)
	if err != nil {
		t.Fatal(err)
	}
	if len(shifts) == 0 {
		t.Fatal("expected some shifts")
	}
	if err := utils.ValidateShiftTimes(shifts); err != nil {
		t.Errorf("seeded shifts overlap: %v", err)
	}
	saved := len(store.shifts["2026-12"]) + len(store.shifts["2027-01"])
	if saved != len(shifts) {
		t.Errorf("saved %d shifts, generated %d", saved, len(shifts))
	}
	for _, shift := range store.shifts["2027-01"] {
		if shift.Date > "2027-01-04" {
			t.Errorf("carry-over shift outside carried days: %s", shift.Date)
		}
	}

	state, err := s.SeedDayOffs(context.Background(), 2026, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Scheduled) == 0 || len(state.Requests) == 0 {
		t.Errorf("expected requests and scheduled day offs, got %+v", state)
	}
	if len(store.requests["2026-06"]) != len(state.Requests) {
		t.Errorf("requests not persisted")
	}
}

func TestSeedDayOffsInvalidMonth(t *testing.T) {
	s := NewSeeder(&fakeHelpers{usernames: map[string]bool{}}, newFakeStore(), "example.com")
	if _, err := s.SeedDayOffs(context.Background(), 2026, 13); !errors.Is(err, roster.ErrInvalidMonth) {
		t.Error("expected invalid month error")
	}
}
