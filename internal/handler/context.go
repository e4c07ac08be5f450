package handler

type ContextKey string

var (
	HelperInfoCtx ContextKey = "helperInfo"
	MonthCtx      ContextKey = "month"
)

// Month 是路由中的 {year}/{month}
type Month struct {
	Year  int
	Month int
}
