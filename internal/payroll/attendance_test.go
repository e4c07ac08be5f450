package payroll

import (
	"errors"
	"testing"
)

func TestGenerateFixedDailyAttendance(t *testing.T) {
	schedule := FixedSchedule{
		StartTime:       "09:00",
		EndTime:         "18:00",
		BreakMinutes:    60,
		ExcludeWeekends: true,
		ExcludeHolidays: true,
	}

	t.Run("排除周末和节假日", func(t *testing.T) {
		days, err := GenerateFixedDailyAttendance(schedule, 2026, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(days) != 31 {
			t.Fatalf("expected 31 days, got %d", len(days))
		}

		reasons := map[string]int{}
		for _, d := range days {
			reasons[d.OffReason]++
		}
		if reasons[OffReasonWeekend] != 10 {
			t.Errorf("expected 10 weekend days, got %d", reasons[OffReasonWeekend])
		}
		if reasons[OffReasonHoliday] != 3 {
			t.Errorf("expected 3 weekday holidays, got %d", reasons[OffReasonHoliday])
		}
		assertHours(t, 18*8, TotalWorkHours(days), "total hours")

		if days[3].Date != "2026-05-04" || days[3].OffReason != OffReasonHoliday || days[3].WorkHours != 0 {
			t.Errorf("expected 2026-05-04 to be a holiday, got %+v", days[3])
		}
	})

	t.Run("没有节假日数据的年份", func(t *testing.T) {
		if HasHolidayTable(2030) {
			t.Fatal("2030 should not have a holiday table")
		}
		days, err := GenerateFixedDailyAttendance(schedule, 2030, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// 2030-01-01 是周二，表中没有数据时照常上班
		if days[0].OffReason != "" || days[0].WorkHours != 8 {
			t.Errorf("expected 2030-01-01 to be a work day, got %+v", days[0])
		}
	})

	t.Run("排除指定日期区间", func(t *testing.T) {
		s := FixedSchedule{
			StartTime: "10:00",
			EndTime:   "15:00",
			Excluded:  []DateRange{{From: "2026-06-10", To: "2026-06-12"}},
		}
		days, err := GenerateFixedDailyAttendance(s, 2026, 6)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		excluded := 0
		for _, d := range days {
			if d.OffReason == OffReasonExcluded {
				excluded++
			}
		}
		if excluded != 3 {
			t.Errorf("expected 3 excluded days, got %d", excluded)
		}
		assertHours(t, 27*5, TotalWorkHours(days), "total hours")
	})

	t.Run("模板不合法", func(t *testing.T) {
		_, err := GenerateFixedDailyAttendance(FixedSchedule{StartTime: "9", EndTime: "18:00"}, 2026, 5)
		if !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("expected ErrInvalidTemplate, got %v", err)
		}
		if _, err := GenerateFixedDailyAttendance(schedule, 2026, 13); err == nil {
			t.Error("expected error for month 13")
		}
	})
}
