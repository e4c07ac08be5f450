package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// 年末年初特别时薪适用的月日
var specialRateMonthDays = []string{"12-31", "01-01", "01-02", "01-03", "01-04"}

var (
	DefaultSpecialRate  = decimal.NewFromInt(3000)
	DefaultNightPremium = decimal.NewFromFloat(1.25)
)

type Parameters struct {
	Rates        RateTable
	Night        NightPolicy
	SpecialRate  decimal.Decimal // 特别日期时薪，与服务类型无关
	NightPremium decimal.Decimal // 深夜时长的倍率
}

type Calculator struct {
	parameters Parameters
}

type ShiftPay struct {
	RegularHours float64         `json:"regularHours"`
	NightHours   float64         `json:"nightHours"`
	RegularPay   decimal.Decimal `json:"regularPay"`
	NightPay     decimal.Decimal `json:"nightPay"`
	TotalPay     decimal.Decimal `json:"totalPay"`
}

func New(parameters Parameters) *Calculator {
	if parameters.Rates == nil {
		parameters.Rates = NewRateTable(DefaultRates)
	}
	if parameters.Night == nil {
		parameters.Night = DefaultNightPolicy
	}
	if parameters.SpecialRate.IsZero() {
		parameters.SpecialRate = DefaultSpecialRate
	}
	if parameters.NightPremium.IsZero() {
		parameters.NightPremium = DefaultNightPremium
	}
	return &Calculator{parameters: parameters}
}

// IsSpecialRateDate 只比较月日部分，与年份无关
func IsSpecialRateDate(date string) bool {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return false
	}
	monthDay := d.Format("01-02")
	for _, md := range specialRateMonthDays {
		if md == monthDay {
			return true
		}
	}
	return false
}

// BaseRate 返回某个日期下的时薪，date 为空表示不考虑特别日期
func (c *Calculator) BaseRate(serviceType domain.ServiceType, date string) decimal.Decimal {
	if date != "" && IsSpecialRateDate(date) {
		return c.parameters.SpecialRate
	}
	return c.parameters.Rates.Rate(serviceType)
}

// CalculateShiftPay 计算单个班次的工资，结果不做取整，只在展示时取整
func (c *Calculator) CalculateShiftPay(serviceType domain.ServiceType, timeRange string, date string) ShiftPay {
	nightHours, regularHours := c.parameters.Night.Split(timeRange)
	rate := c.BaseRate(serviceType, date)

	regularPay := rate.Mul(decimal.NewFromFloat(regularHours))
	nightPay := rate.Mul(decimal.NewFromFloat(nightHours)).Mul(c.parameters.NightPremium)

	return ShiftPay{
		RegularHours: regularHours,
		NightHours:   nightHours,
		RegularPay:   regularPay,
		NightPay:     nightPay,
		TotalPay:     regularPay.Add(nightPay),
	}
}

func (c *Calculator) CalculateForShift(shift *domain.Shift) ShiftPay {
	return c.CalculateShiftPay(shift.ServiceType, shift.TimeRange(), shift.Date)
}

func RoundForDisplay(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}
