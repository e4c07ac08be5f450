package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

type MonthlyPay struct {
	TotalRegularPay decimal.Decimal `json:"totalRegularPay"`
	TotalNightPay   decimal.Decimal `json:"totalNightPay"`
	TotalPay        decimal.Decimal `json:"totalPay"`
}

// CalculateMonthlyPay 简单求和，零值字段按 0 计算
func CalculateMonthlyPay(records []ShiftPay) MonthlyPay {
	result := MonthlyPay{
		TotalRegularPay: decimal.Zero,
		TotalNightPay:   decimal.Zero,
		TotalPay:        decimal.Zero,
	}
	for _, record := range records {
		result.TotalRegularPay = result.TotalRegularPay.Add(record.RegularPay)
		result.TotalNightPay = result.TotalNightPay.Add(record.NightPay)
		result.TotalPay = result.TotalPay.Add(record.TotalPay)
	}
	return result
}

type HelperPayroll struct {
	HelperID     int64   `json:"helperID"`
	ShiftCount   int     `json:"shiftCount"`
	RegularHours float64 `json:"regularHours"`
	NightHours   float64 `json:"nightHours"`
	MonthlyPay
}

// SummarizeMonth 按助理汇总某个月的工资，已删除的班次和不属于该月的班次不计入
func (c *Calculator) SummarizeMonth(monthPrefix string, shifts []*domain.Shift) []HelperPayroll {
	records := make(map[int64][]ShiftPay)
	for _, shift := range shifts {
		if shift.Deleted || !shift.InMonth(monthPrefix) {
			continue
		}
		records[shift.HelperID] = append(records[shift.HelperID], c.CalculateForShift(shift))
	}

	result := make([]HelperPayroll, 0, len(records))
	for helperID, pays := range records {
		line := HelperPayroll{
			HelperID:   helperID,
			ShiftCount: len(pays),
			MonthlyPay: CalculateMonthlyPay(pays),
		}
		for _, p := range pays {
			line.RegularHours += p.RegularHours
			line.NightHours += p.NightHours
		}
		result = append(result, line)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].HelperID < result[j].HelperID
	})

	return result
}
