package roster

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// CarryOverDays 是十二月视图额外带出的次年一月天数
const CarryOverDays = 4

var ErrInvalidMonth = errors.New("月份不合法")

func ValidateMonth(year, month int) error {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDays 返回该月的所有日期，十二月额外追加次年 1 月 1 日到 4 日
func MonthDays(year, month int) []string {
	n := daysIn(year, month)
	days := make([]string, 0, n+CarryOverDays)
	for d := 1; d <= n; d++ {
		days = append(days, fmt.Sprintf("%s-%02d", domain.MonthPrefix(year, month), d))
	}
	if month == 12 {
		for d := 1; d <= CarryOverDays; d++ {
			days = append(days, fmt.Sprintf("%s-%02d", domain.MonthPrefix(year+1, 1), d))
		}
	}
	return days
}

// Bucket 是存储层按 (年, 月) 划分的分区
type Bucket struct {
	Year  int
	Month int
	// CarryOver 为 true 时只有前 CarryOverDays 天属于当前视图
	CarryOver bool
}

func (b Bucket) Prefix() string {
	return domain.MonthPrefix(b.Year, b.Month)
}

// Covers 判断日期是否属于当前视图在这个分区里的部分
func (b Bucket) Covers(date string) bool {
	if !strings.HasPrefix(date, b.Prefix()+"-") {
		return false
	}
	if !b.CarryOver {
		return true
	}
	day := strings.TrimPrefix(date, b.Prefix()+"-")
	return day >= "01" && day <= fmt.Sprintf("%02d", CarryOverDays)
}

// Buckets 返回加载和保存某个月视图时需要读写的分区
func Buckets(year, month int) []Bucket {
	buckets := []Bucket{{Year: year, Month: month}}
	if month == 12 {
		buckets = append(buckets, Bucket{Year: year + 1, Month: 1, CarryOver: true})
	}
	return buckets
}
