package domain

import (
	"strings"
	"time"
)

type ServiceType string

const (
	ServicePhysicalCare ServiceType = "physical_care"
	ServiceHousekeeping ServiceType = "housekeeping"
	ServiceEscort       ServiceType = "escort"
	ServiceOvernight    ServiceType = "overnight"
)

type Shift struct {
	ID            string      `json:"id"`
	Date          string      `json:"date"` // YYYY-MM-DD
	StartTime     string      `json:"startTime"`
	EndTime       string      `json:"endTime"`
	HelperID      int64       `json:"helperID"`
	ClientName    string      `json:"clientName"`
	ServiceType   ServiceType `json:"serviceType"`
	DurationHours *float64    `json:"durationHours,omitempty"`
	Area          *string     `json:"area,omitempty"`
	Deleted       bool        `json:"deleted"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	Version       int32       `json:"-"`
}

// TimeRange 返回 HH:MM-HH:MM 形式的时间段
func (s *Shift) TimeRange() string {
	return s.StartTime + "-" + s.EndTime
}

// InMonth 判断班次日期是否落在 prefix（YYYY-MM）所代表的月份
func (s *Shift) InMonth(prefix string) bool {
	return strings.HasPrefix(s.Date, prefix+"-")
}
