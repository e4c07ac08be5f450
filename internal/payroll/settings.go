package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Settings 是从配置或命令行读取的计算参数
type Settings struct {
	Rates        map[string]float64
	NightStart   string
	NightEnd     string
	SpecialRate  float64
	NightPremium float64
}

func NewFromSettings(s Settings) (*Calculator, error) {
	params := Parameters{}

	if len(s.Rates) > 0 {
		params.Rates = NewRateTable(s.Rates)
	}
	if s.NightStart != "" || s.NightEnd != "" {
		policy, ok := NewWindowPolicy(s.NightStart, s.NightEnd)
		if !ok {
			return nil, fmt.Errorf("深夜时段 %s-%s 格式错误", s.NightStart, s.NightEnd)
		}
		params.Night = policy
	}
	if s.SpecialRate < 0 || s.NightPremium < 0 {
		return nil, fmt.Errorf("时薪和倍率不能为负数")
	}
	params.SpecialRate = decimal.NewFromFloat(s.SpecialRate)
	params.NightPremium = decimal.NewFromFloat(s.NightPremium)

	return New(params), nil
}
