package payroll

import "time"

// 日本法定节假日（含振替休日、国民の休日），只维护了有限的年份。
// 表中没有的年份按“没有节假日”处理，需要每年补充数据。
var holidayTable = map[int][]string{
	2024: {
		"01-01", "01-08", "02-11", "02-12", "02-23", "03-20", "04-29", "05-03", "05-04", "05-05",
		"05-06", "07-15", "08-11", "08-12", "09-16", "09-22", "09-23", "10-14", "11-03", "11-04",
		"11-23",
	},
	2025: {
		"01-01", "01-13", "02-11", "02-23", "02-24", "03-20", "04-29", "05-03", "05-04", "05-05",
		"05-06", "07-21", "08-11", "09-15", "09-23", "10-13", "11-03", "11-23", "11-24",
	},
	2026: {
		"01-01", "01-12", "02-11", "02-23", "03-20", "04-29", "05-03", "05-04", "05-05", "05-06",
		"07-20", "08-11", "09-21", "09-22", "09-23", "10-12", "11-03", "11-23",
	},
	2027: {
		"01-01", "01-11", "02-11", "02-23", "03-21", "03-22", "04-29", "05-03", "05-04", "05-05",
		"07-19", "08-11", "09-20", "09-23", "10-11", "11-03", "11-23",
	},
}

// HasHolidayTable 判断某年是否有节假日数据
func HasHolidayTable(year int) bool {
	_, ok := holidayTable[year]
	return ok
}

func IsHoliday(d time.Time) bool {
	monthDay := d.Format("01-02")
	for _, md := range holidayTable[d.Year()] {
		if md == monthDay {
			return true
		}
	}
	return false
}
