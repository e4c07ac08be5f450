package domain

// PayrollJob 是在保存某个月的班次后投递到 payroll_queue 的消息
type PayrollJob struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type PayrollSummaryMailData struct {
	Year    int                  `json:"year"`
	Month   int                  `json:"month"`
	Helpers []PayrollSummaryLine `json:"helpers"`
	Total   string               `json:"total"`
}

type PayrollSummaryLine struct {
	FullName     string `json:"fullName"`
	RegularHours string `json:"regularHours"`
	NightHours   string `json:"nightHours"`
	TotalPay     string `json:"totalPay"`
}
