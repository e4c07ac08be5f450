package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// RateTable 是服务类型到时薪的映射
type RateTable map[domain.ServiceType]decimal.Decimal

// DefaultRates 在没有外部配置时使用
var DefaultRates = map[string]float64{
	string(domain.ServicePhysicalCare): 1500,
	string(domain.ServiceHousekeeping): 1200,
	string(domain.ServiceEscort):       1400,
	string(domain.ServiceOvernight):    1300,
}

func NewRateTable(rates map[string]float64) RateTable {
	table := make(RateTable, len(rates))
	for serviceType, rate := range rates {
		table[domain.ServiceType(serviceType)] = decimal.NewFromFloat(rate)
	}
	return table
}

// Rate 未知的服务类型返回 0，不视为错误
func (t RateTable) Rate(serviceType domain.ServiceType) decimal.Decimal {
	rate, ok := t[serviceType]
	if !ok {
		return decimal.Zero
	}
	return rate
}
