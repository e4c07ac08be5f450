package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

const MinutesPerDay = 24 * 60

// Range 表示一天内的时间段，单位为距离零点的分钟数
type Range struct {
	Start int
	End   int
}

// ParseTimeToMinutes 解析 H:MM 或 HH:MM，不合法时返回 false
func ParseTimeToMinutes(text string) (int, bool) {
	t := strings.TrimSpace(text)
	hourPart, minutePart, found := strings.Cut(t, ":")
	if !found {
		return 0, false
	}
	if len(hourPart) < 1 || len(hourPart) > 2 || len(minutePart) != 2 {
		return 0, false
	}
	if !isDigits(hourPart) || !isDigits(minutePart) {
		return 0, false
	}

	h, err := strconv.Atoi(hourPart)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(minutePart)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}

// ParseRange 解析 HH:MM-HH:MM
func ParseRange(text string) (Range, bool) {
	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return Range{}, false
	}

	start, ok := ParseTimeToMinutes(parts[0])
	if !ok {
		return Range{}, false
	}
	end, ok := ParseTimeToMinutes(parts[1])
	if !ok {
		return Range{}, false
	}

	return Range{Start: start, End: end}, true
}

// CrossesMidnight 结束时间早于开始时间时视为跨越零点
func (r Range) CrossesMidnight() bool {
	return r.End < r.Start
}

// EndAbsolute 返回以开始当天零点为基准的结束分钟数，跨零点时加一天
func (r Range) EndAbsolute() int {
	if r.CrossesMidnight() {
		return r.End + MinutesPerDay
	}
	return r.End
}

// Duration 返回时长（分钟），开始等于结束时为 0
func (r Range) Duration() int {
	return r.EndAbsolute() - r.Start
}

func (r Range) Hours() float64 {
	return float64(r.Duration()) / 60
}

func (r Range) String() string {
	return FormatRange(r.Start, r.End)
}

// FormatMinutes 将分钟数格式化为 HH:MM，超过一天的部分取模
func FormatMinutes(m int) string {
	m = ((m % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func FormatRange(start, end int) string {
	return FormatMinutes(start) + "-" + FormatMinutes(end)
}

// Overlap 返回 [aStart, aEnd) 与 [bStart, bEnd) 的重叠分钟数
func Overlap(aStart, aEnd, bStart, bEnd int) int {
	lo := max(aStart, bStart)
	hi := min(aEnd, bEnd)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
