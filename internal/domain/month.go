package domain

import "fmt"

// MonthPrefix 返回 YYYY-MM
func MonthPrefix(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
