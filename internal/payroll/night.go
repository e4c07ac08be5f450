package payroll

import (
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

// NightPolicy 把一个时间段拆分为深夜时长和普通时长（单位：小时）
type NightPolicy interface {
	Split(timeRange string) (nightHours, regularHours float64)
}

// WindowPolicy 以一天内固定的深夜时间窗拆分，Start > End 表示窗口跨越零点
type WindowPolicy struct {
	Start int
	End   int
}

// DefaultNightPolicy 深夜时间窗 22:00-05:00
var DefaultNightPolicy = WindowPolicy{Start: 22 * 60, End: 5 * 60}

func NewWindowPolicy(start, end string) (WindowPolicy, bool) {
	s, ok := timeutil.ParseTimeToMinutes(start)
	if !ok {
		return WindowPolicy{}, false
	}
	e, ok := timeutil.ParseTimeToMinutes(end)
	if !ok {
		return WindowPolicy{}, false
	}
	return WindowPolicy{Start: s, End: e}, true
}

// Split 无法解析的时间段贡献 0 小时
func (p WindowPolicy) Split(timeRange string) (float64, float64) {
	r, ok := timeutil.ParseRange(timeRange)
	if !ok {
		return 0, 0
	}

	start := r.Start
	end := r.EndAbsolute()
	total := end - start
	if p.Start == p.End {
		return 0, float64(total) / 60
	}

	// 班次最多延伸到次日，检查前一天、当天、次日三个窗口即可
	night := 0
	for day := -1; day <= 1; day++ {
		base := day * timeutil.MinutesPerDay
		wStart := base + p.Start
		wEnd := base + p.End
		if p.End <= p.Start {
			wEnd += timeutil.MinutesPerDay
		}
		night += timeutil.Overlap(start, end, wStart, wEnd)
	}

	return float64(night) / 60, float64(total-night) / 60
}
