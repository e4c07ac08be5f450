package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

func assertDecimal(t *testing.T, want int64, got decimal.Decimal, label string) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s: expected %d, got %s", label, want, got.String())
	}
}

func assertHours(t *testing.T, want, got float64, label string) {
	t.Helper()
	diff := want - got
	if diff < -1e-9 || diff > 1e-9 {
		t.Errorf("%s: expected %.4f, got %.4f", label, want, got)
	}
}

func TestIsSpecialRateDate(t *testing.T) {
	cases := map[string]bool{
		"2027-01-02": true,
		"2027-01-05": false,
		"2025-12-31": true,
		"2025-12-30": false,
		"2030-01-01": true,
		"2026-01-04": true,
		"bad":        false,
		"":           false,
	}
	for date, want := range cases {
		if got := IsSpecialRateDate(date); got != want {
			t.Errorf("IsSpecialRateDate(%q) = %v, want %v", date, got, want)
		}
	}
}

func TestCalculateShiftPay(t *testing.T) {
	c := New(Parameters{})

	t.Run("普通日期", func(t *testing.T) {
		pay := c.CalculateShiftPay(domain.ServicePhysicalCare, "09:00-12:00", "2026-06-15")
		assertHours(t, 3, pay.RegularHours, "regular hours")
		assertHours(t, 0, pay.NightHours, "night hours")
		assertDecimal(t, 4500, pay.RegularPay, "regular pay")
		assertDecimal(t, 0, pay.NightPay, "night pay")
		if !pay.TotalPay.Equal(pay.RegularPay) {
			t.Errorf("expected total to equal regular pay, got %s", pay.TotalPay)
		}
	})

	t.Run("特别日期覆盖时薪", func(t *testing.T) {
		for _, st := range []domain.ServiceType{domain.ServicePhysicalCare, domain.ServiceHousekeeping, "unknown"} {
			pay := c.CalculateShiftPay(st, "09:00-12:00", "2025-12-31")
			assertDecimal(t, 9000, pay.RegularPay, string(st))
		}
	})

	t.Run("未传日期不覆盖", func(t *testing.T) {
		pay := c.CalculateShiftPay(domain.ServiceHousekeeping, "09:00-12:00", "")
		assertDecimal(t, 3600, pay.RegularPay, "regular pay")
	})

	t.Run("深夜加成", func(t *testing.T) {
		pay := c.CalculateShiftPay(domain.ServicePhysicalCare, "21:00-23:00", "2026-06-15")
		assertHours(t, 1, pay.RegularHours, "regular hours")
		assertHours(t, 1, pay.NightHours, "night hours")
		assertDecimal(t, 1500, pay.RegularPay, "regular pay")
		assertDecimal(t, 1875, pay.NightPay, "night pay")
		assertDecimal(t, 3375, pay.TotalPay, "total pay")
	})

	t.Run("跨零点", func(t *testing.T) {
		pay := c.CalculateShiftPay(domain.ServiceOvernight, "22:00-02:00", "2026-06-15")
		assertHours(t, 4, pay.NightHours, "night hours")
		assertHours(t, 0, pay.RegularHours, "regular hours")
		assertDecimal(t, 6500, pay.NightPay, "night pay")
	})

	t.Run("清晨", func(t *testing.T) {
		pay := c.CalculateShiftPay(domain.ServicePhysicalCare, "04:00-07:00", "2026-06-15")
		assertHours(t, 1, pay.NightHours, "night hours")
		assertHours(t, 2, pay.RegularHours, "regular hours")
	})

	t.Run("未知服务类型工资为零", func(t *testing.T) {
		pay := c.CalculateShiftPay("unknown", "09:00-12:00", "2026-06-15")
		assertHours(t, 3, pay.RegularHours, "regular hours")
		assertDecimal(t, 0, pay.TotalPay, "total pay")
	})

	t.Run("时间格式错误按零计算", func(t *testing.T) {
		pay := c.CalculateShiftPay(domain.ServicePhysicalCare, "9時-12時", "2026-06-15")
		assertHours(t, 0, pay.RegularHours, "regular hours")
		assertDecimal(t, 0, pay.TotalPay, "total pay")
	})
}

func TestWindowPolicy(t *testing.T) {
	p, ok := NewWindowPolicy("22:00", "05:00")
	if !ok {
		t.Fatal("expected policy to parse")
	}
	if p != DefaultNightPolicy {
		t.Errorf("expected default policy, got %+v", p)
	}

	night, regular := WindowPolicy{Start: 0, End: 0}.Split("21:00-23:00")
	assertHours(t, 0, night, "night")
	assertHours(t, 2, regular, "regular")

	night, regular = p.Split("03:00-23:30")
	assertHours(t, 3.5, night, "night")
	assertHours(t, 17, regular, "regular")
}

func TestCustomRates(t *testing.T) {
	c := New(Parameters{
		Rates:       NewRateTable(map[string]float64{"physical_care": 2000}),
		SpecialRate: decimal.NewFromInt(5000),
	})
	assertDecimal(t, 4000, c.CalculateShiftPay(domain.ServicePhysicalCare, "10:00-12:00", "2026-03-03").TotalPay, "custom rate")
	assertDecimal(t, 0, c.CalculateShiftPay(domain.ServiceHousekeeping, "10:00-12:00", "2026-03-03").TotalPay, "missing rate")
	assertDecimal(t, 10000, c.CalculateShiftPay(domain.ServiceHousekeeping, "10:00-12:00", "2026-01-03").TotalPay, "special rate")
}

func TestRoundForDisplay(t *testing.T) {
	got := RoundForDisplay(decimal.RequireFromString("1234.5"))
	if !got.Equal(decimal.NewFromInt(1235)) {
		t.Errorf("got %s", got)
	}
}
