package roster

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/dayoff"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

func TestMonthDays(t *testing.T) {
	if got := MonthDays(2026, 2); len(got) != 28 || got[0] != "2026-02-01" || got[27] != "2026-02-28" {
		t.Errorf("unexpected February days: %v", got)
	}
	if got := MonthDays(2028, 2); len(got) != 29 {
		t.Errorf("expected leap February, got %d days", len(got))
	}

	dec := MonthDays(2026, 12)
	if len(dec) != 35 {
		t.Fatalf("expected 31+4 days, got %d", len(dec))
	}
	if dec[31] != "2027-01-01" || dec[34] != "2027-01-04" {
		t.Errorf("unexpected carry-over days: %v", dec[31:])
	}
}

func TestBuckets(t *testing.T) {
	if b := Buckets(2026, 6); len(b) != 1 || b[0].Prefix() != "2026-06" {
		t.Errorf("got %+v", b)
	}

	b := Buckets(2026, 12)
	if len(b) != 2 || b[1].Prefix() != "2027-01" || !b[1].CarryOver {
		t.Fatalf("got %+v", b)
	}
	if !b[1].Covers("2027-01-04") || b[1].Covers("2027-01-05") || b[1].Covers("2026-12-31") {
		t.Error("carry-over bucket should only cover the first days of January")
	}
	if !b[0].Covers("2026-12-31") || b[0].Covers("2027-01-01") {
		t.Error("december bucket should only cover december")
	}
}

func TestDecemberCarryOver(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	store.shifts["2026-12"] = []*domain.Shift{{ID: "a", Date: "2026-12-31", HelperID: 1, StartTime: "09:00", EndTime: "12:00"}}
	store.shifts["2027-01"] = []*domain.Shift{
		{ID: "b", Date: "2027-01-02", HelperID: 1, StartTime: "09:00", EndTime: "12:00"},
		{ID: "c", Date: "2027-01-20", HelperID: 1, StartTime: "09:00", EndTime: "12:00"},
	}
	store.requests["2027-01"] = map[string]string{
		domain.DayOffKey(1, "2027-01-03"): domain.FullDay,
		domain.DayOffKey(1, "2027-01-15"): domain.FullDay,
	}

	loader := NewLoader(store)
	m, err := loader.Load(ctx, 2026, 12)
	if err != nil {
		t.Fatal(err)
	}

	if len(store.reads) != 2 || store.reads[0] != "2026-12" || store.reads[1] != "2027-01" {
		t.Errorf("expected both buckets to be read, got %v", store.reads)
	}
	if len(m.Shifts) != 2 {
		t.Errorf("expected 2 visible shifts, got %d", len(m.Shifts))
	}
	if m.DayOffs.Len() != 1 {
		t.Errorf("expected only the carried-over request, got %d", m.DayOffs.Len())
	}

	state := m.DayOffs.Clone()
	state.Requests[domain.DayOffKey(2, "2026-12-30")] = "09:00-12:00"
	state.Scheduled[domain.DayOffKey(2, "2027-01-01")] = true

	if err := loader.SaveDayOffs(ctx, 2026, 12, state); err != nil {
		t.Fatal(err)
	}

	for bucket, requests := range store.requests {
		for key := range requests {
			if !strings.HasPrefix(domain.KeyDate(key), bucket+"-") {
				t.Errorf("key %s written to bucket %s", key, bucket)
			}
		}
	}
	for bucket, scheduled := range store.scheduled {
		for key := range scheduled {
			if !strings.HasPrefix(domain.KeyDate(key), bucket+"-") {
				t.Errorf("key %s written to bucket %s", key, bucket)
			}
		}
	}

	if _, ok := store.requests["2027-01"][domain.DayOffKey(1, "2027-01-15")]; !ok {
		t.Error("january entries outside the carried-over days must be preserved")
	}
	if !store.scheduled["2027-01"][domain.DayOffKey(2, "2027-01-01")] {
		t.Error("expected carried-over scheduled day off in january bucket")
	}
	if store.requests["2026-12"][domain.DayOffKey(2, "2026-12-30")] != "09:00-12:00" {
		t.Error("expected december request in december bucket")
	}
}

func TestSaveShiftsPartition(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	loader := NewLoader(store)

	shifts := []*domain.Shift{
		{ID: "a", Date: "2026-12-31"},
		{ID: "b", Date: "2027-01-04"},
	}
	if err := loader.SaveShifts(ctx, 2026, 12, shifts); err != nil {
		t.Fatal(err)
	}
	if len(store.shifts["2026-12"]) != 1 || len(store.shifts["2027-01"]) != 1 {
		t.Errorf("unexpected partition: %v", store.writes)
	}

	err := loader.SaveShifts(ctx, 2026, 6, []*domain.Shift{{ID: "x", Date: "2026-07-01"}})
	if !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth for out-of-month shift, got %v", err)
	}

	if _, err := loader.Load(ctx, 2026, 13); !errors.Is(err, ErrInvalidMonth) {
		t.Errorf("expected ErrInvalidMonth, got %v", err)
	}
}

func TestSaveDayOffsOrdinaryMonth(t *testing.T) {
	store := newMemoryStore()
	loader := NewLoader(store)

	state := dayoff.NewState()
	state.Display[domain.DayOffKey(3, "2026-06-05")] = "研修"

	if err := loader.SaveDayOffs(context.Background(), 2026, 6, state); err != nil {
		t.Fatal(err)
	}
	if store.display["2026-06"][domain.DayOffKey(3, "2026-06-05")] != "研修" {
		t.Error("expected display text to be saved")
	}
	if len(store.reads) != 0 {
		t.Errorf("ordinary month save should not read, got %v", store.reads)
	}
}
