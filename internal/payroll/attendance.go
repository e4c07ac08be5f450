package payroll

import (
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

const (
	OffReasonWeekend  = "weekend"
	OffReasonHoliday  = "holiday"
	OffReasonExcluded = "excluded"
)

var ErrInvalidTemplate = errors.New("固定排班模板的时间格式错误")

// DateRange 闭区间，日期格式为 YYYY-MM-DD
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r DateRange) Contains(date string) bool {
	return date >= r.From && date <= r.To
}

// FixedSchedule 是工作日固定上下班的模板
type FixedSchedule struct {
	StartTime       string      `json:"startTime"`
	EndTime         string      `json:"endTime"`
	BreakMinutes    int         `json:"breakMinutes"`
	ExcludeWeekends bool        `json:"excludeWeekends"`
	ExcludeHolidays bool        `json:"excludeHolidays"`
	Excluded        []DateRange `json:"excluded"`
}

type AttendanceDay struct {
	Date         string       `json:"date"`
	Weekday      time.Weekday `json:"weekday"`
	StartTime    string       `json:"startTime"`
	EndTime      string       `json:"endTime"`
	BreakMinutes int          `json:"breakMinutes"`
	WorkHours    float64      `json:"workHours"`
	OffReason    string       `json:"offReason,omitempty"`
}

// GenerateFixedDailyAttendance 将模板展开为该月每一天的出勤记录，休息日的工时为 0
func GenerateFixedDailyAttendance(schedule FixedSchedule, year, month int) ([]AttendanceDay, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("月份 %d 不合法", month)
	}
	r, ok := timeutil.ParseRange(schedule.StartTime + "-" + schedule.EndTime)
	if !ok {
		return nil, ErrInvalidTemplate
	}
	if schedule.BreakMinutes < 0 {
		return nil, fmt.Errorf("休息时长不能为负数: %d", schedule.BreakMinutes)
	}

	workHours := float64(r.Duration()-schedule.BreakMinutes) / 60
	if workHours < 0 {
		workHours = 0
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := make([]AttendanceDay, 0, 31)

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format(domain.DateLayout)
		day := AttendanceDay{
			Date:      date,
			Weekday:   d.Weekday(),
			OffReason: offReason(schedule, d, date),
		}
		if day.OffReason == "" {
			day.StartTime = schedule.StartTime
			day.EndTime = schedule.EndTime
			day.BreakMinutes = schedule.BreakMinutes
			day.WorkHours = workHours
		}
		days = append(days, day)
	}

	return days, nil
}

func offReason(schedule FixedSchedule, d time.Time, date string) string {
	if schedule.ExcludeWeekends && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
		return OffReasonWeekend
	}
	if schedule.ExcludeHolidays && IsHoliday(d) {
		return OffReasonHoliday
	}
	for _, r := range schedule.Excluded {
		if r.Contains(date) {
			return OffReasonExcluded
		}
	}
	return ""
}

// TotalWorkHours 汇总出勤记录的工时
func TotalWorkHours(days []AttendanceDay) float64 {
	total := 0.0
	for _, d := range days {
		total += d.WorkHours
	}
	return total
}
