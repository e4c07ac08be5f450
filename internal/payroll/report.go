package payroll

import (
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// Report 是某个月的工资汇总，API 和工资任务共用，也是缓存的内容
type Report struct {
	Year    int          `json:"year"`
	Month   int          `json:"month"`
	Helpers []ReportLine `json:"helpers"`
	Total   MonthlyPay   `json:"total"`
}

type ReportLine struct {
	HelperPayroll
	FullName string `json:"fullName"`
}

// BuildReport 汇总班次，names 中找不到的助理以 ID 作为名字
func (c *Calculator) BuildReport(year, month int, shifts []*domain.Shift, names map[int64]string) Report {
	summary := c.SummarizeMonth(domain.MonthPrefix(year, month), shifts)

	report := Report{
		Year:    year,
		Month:   month,
		Helpers: make([]ReportLine, 0, len(summary)),
	}
	totals := make([]ShiftPay, 0, len(summary))
	for _, line := range summary {
		name, ok := names[line.HelperID]
		if !ok {
			name = "#" + strconv.FormatInt(line.HelperID, 10)
		}
		report.Helpers = append(report.Helpers, ReportLine{HelperPayroll: line, FullName: name})
		totals = append(totals, ShiftPay{
			RegularPay: line.TotalRegularPay,
			NightPay:   line.TotalNightPay,
			TotalPay:   line.TotalPay,
		})
	}
	report.Total = CalculateMonthlyPay(totals)

	return report
}

// MailData 转换为邮件模板使用的数据，金额按展示规则取整
func (r Report) MailData() domain.PayrollSummaryMailData {
	data := domain.PayrollSummaryMailData{
		Year:    r.Year,
		Month:   r.Month,
		Helpers: make([]domain.PayrollSummaryLine, 0, len(r.Helpers)),
		Total:   RoundForDisplay(r.Total.TotalPay).String(),
	}
	for _, line := range r.Helpers {
		data.Helpers = append(data.Helpers, domain.PayrollSummaryLine{
			FullName:     line.FullName,
			RegularHours: formatHours(line.RegularHours),
			NightHours:   formatHours(line.NightHours),
			TotalPay:     RoundForDisplay(line.TotalPay).String(),
		})
	}
	return data
}

func formatHours(hours float64) string {
	return decimal.NewFromFloat(hours).StringFixed(2)
}
