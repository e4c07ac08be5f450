package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/payroll"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

func payrollCacheKey(year, month int) string {
	return "payroll:" + domain.MonthPrefix(year, month)
}

func (h *Handler) GetMonthlyPayroll(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)
	key := payrollCacheKey(month.Year, month.Month)

	if h.redisClient != nil {
		cached, err := h.redisClient.Get(r.Context(), key).Bytes()
		switch {
		case err == nil:
			var report payroll.Report
			if err := json.Unmarshal(cached, &report); err == nil {
				h.successResponse(w, r, "获取工资汇总成功", report)
				return
			}
			slog.Warn("工资缓存内容无法解析", "key", key)
		case !errors.Is(err, redis.Nil):
			slog.Error("无法读取工资缓存", "key", key, "error", err)
		}
	}

	shifts, err := h.repository.GetShiftsByMonth(r.Context(), month.Year, month.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	helpers, err := h.repository.GetAllHelpers(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	names := make(map[int64]string, len(helpers))
	for _, helper := range helpers {
		names[helper.ID] = helper.FullName
	}

	report := h.calculator.BuildReport(month.Year, month.Month, shifts, names)

	if h.redisClient != nil {
		if payload, err := json.Marshal(report); err == nil {
			ttl := time.Duration(h.config.Redis.PayrollCacheTTL) * time.Second
			if err := h.redisClient.Set(r.Context(), key, payload, ttl).Err(); err != nil {
				slog.Error("无法写入工资缓存", "key", key, "error", err)
			}
		}
	}

	h.successResponse(w, r, "获取工资汇总成功", report)
}

type calculatePayResponse struct {
	payroll.ShiftPay
	Special      bool            `json:"special"`
	DisplayTotal decimal.Decimal `json:"displayTotal"`
}

func (h *Handler) CalculatePay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceType string `json:"serviceType" validate:"required"`
		TimeRange   string `json:"timeRange" validate:"required"`
		Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	}
	if !h.readAndValidate(w, r, &req) {
		return
	}
	if _, ok := timeutil.ParseRange(req.TimeRange); !ok {
		h.errorResponse(w, r, "时间段格式错误，应为 HH:MM-HH:MM")
		return
	}

	pay := h.calculator.CalculateShiftPay(domain.ServiceType(req.ServiceType), req.TimeRange, req.Date)

	h.successResponse(w, r, "计算成功", calculatePayResponse{
		ShiftPay:     pay,
		Special:      req.Date != "" && payroll.IsSpecialRateDate(req.Date),
		DisplayTotal: payroll.RoundForDisplay(pay.TotalPay),
	})
}

type fixedAttendanceResponse struct {
	Days            []payroll.AttendanceDay `json:"days"`
	TotalHours      float64                 `json:"totalHours"`
	HasHolidayTable bool                    `json:"hasHolidayTable"`
}

func (h *Handler) GenerateFixedAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Year     int                   `json:"year" validate:"required,gte=1970,lte=9999"`
		Month    int                   `json:"month" validate:"required,gte=1,lte=12"`
		Schedule payroll.FixedSchedule `json:"schedule"`
	}
	if !h.readAndValidate(w, r, &req) {
		return
	}

	days, err := payroll.GenerateFixedDailyAttendance(req.Schedule, req.Year, req.Month)
	if err != nil {
		h.badRequest(w, r, fmt.Errorf("无法生成出勤表: %w", err))
		return
	}

	h.successResponse(w, r, "生成出勤表成功", fixedAttendanceResponse{
		Days:            days,
		TotalHours:      payroll.TotalWorkHours(days),
		HasHolidayTable: payroll.HasHolidayTable(req.Year),
	})
}
