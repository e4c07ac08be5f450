package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/dayoff"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/notify"
)

func (h *Handler) SaveDayOffs(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	var req dayoff.State
	if !h.readAndValidate(w, r, &req) {
		return
	}

	state, err := normalizeDayOffs(req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.loader.SaveDayOffs(r.Context(), month.Year, month.Month, state); err != nil {
		h.saveError(w, r, err)
		return
	}
	h.publishChange(r.Context(), month, notify.ChangeDayOffs)

	h.successResponse(w, r, "保存休假成功", state)
}

// normalizeDayOffs 检查键的格式并把休假时间段统一成 HH:MM-HH:MM 或 all
func normalizeDayOffs(in dayoff.State) (dayoff.State, error) {
	state := in.Clone()
	for key, spec := range state.Requests {
		if _, _, ok := domain.ParseDayOffKey(key); !ok {
			return in, fmt.Errorf("休假键 %s 格式错误", key)
		}
		normalized, err := dayoff.NormalizeTimeSpec(spec)
		if err != nil {
			return in, fmt.Errorf("%s: %w", key, err)
		}
		state.Requests[key] = normalized
	}
	for key := range state.Scheduled {
		if _, _, ok := domain.ParseDayOffKey(key); !ok {
			return in, fmt.Errorf("休假键 %s 格式错误", key)
		}
	}
	for key := range state.Display {
		if _, _, ok := domain.ParseDayOffKey(key); !ok {
			return in, fmt.Errorf("休假键 %s 格式错误", key)
		}
	}
	return state, nil
}

type toggleDayOffRequest struct {
	Mode     string `json:"mode" validate:"required,oneof=cell helper date"`
	HelperID int64  `json:"helperId" validate:"required_unless=Mode date"`
	Date     string `json:"date" validate:"required_unless=Mode helper"`
	// Kind 只在单个单元格且原本没有休假时需要
	Kind     string `json:"kind" validate:"omitempty,oneof=request scheduled"`
	TimeSpec string `json:"timeSpec"`
	Slots    []int  `json:"slots" validate:"omitempty,max=2,dive,gte=0"`
}

type toggleDayOffResponse struct {
	Cleared bool         `json:"cleared"`
	DayOffs dayoff.State `json:"dayOffs"`
}

// ToggleDayOff 单元格、整行（某助理整月）或整列（某日所有助理）切换休假
func (h *Handler) ToggleDayOff(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	var req toggleDayOffRequest
	if !h.readAndValidate(w, r, &req) {
		return
	}

	m, err := h.loader.Load(r.Context(), month.Year, month.Month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if req.Date != "" && !containsDay(m.Days, req.Date) {
		h.errorResponse(w, r, "日期不在当前月份内")
		return
	}

	var (
		next    dayoff.State
		cleared bool
	)
	switch req.Mode {
	case "helper":
		next = m.DayOffs.ToggleHelperMonth(req.HelperID, m.Days)
		cleared = next.Len() < m.DayOffs.Len()
	case "date":
		helpers, err := h.activeHelpers(r.Context())
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		ids := make([]int64, 0, len(helpers))
		for _, helper := range helpers {
			ids = append(ids, helper.ID)
		}
		next = m.DayOffs.ToggleDateAllHelpers(req.Date, ids)
		cleared = next.Len() < m.DayOffs.Len()
	default:
		var result dayoff.ToggleResult
		next, result = m.DayOffs.Toggle(req.HelperID, req.Date)
		cleared = result == dayoff.ToggleCleared
		if !cleared {
			decision, err := h.decision(req)
			if err != nil {
				h.badRequest(w, r, err)
				return
			}
			if next, err = next.Apply(decision); err != nil {
				h.badRequest(w, r, err)
				return
			}
		}
	}

	if err := h.loader.SaveDayOffs(r.Context(), month.Year, month.Month, next); err != nil {
		h.saveError(w, r, err)
		return
	}
	h.publishChange(r.Context(), month, notify.ChangeDayOffs)

	h.successResponse(w, r, "切换休假成功", toggleDayOffResponse{Cleared: cleared, DayOffs: next})
}

// decision 把请求转换为 Decision，slots 给出时由时间段选择器生成时间描述
func (h *Handler) decision(req toggleDayOffRequest) (dayoff.Decision, error) {
	d := dayoff.Decision{HelperID: req.HelperID, Date: req.Date}
	switch req.Kind {
	case "scheduled":
		d.Kind = dayoff.KindScheduled
		return d, nil
	case "request":
		d.Kind = dayoff.KindRequest
	default:
		return d, errors.New("请选择休假类型")
	}

	if len(req.Slots) == 0 {
		d.TimeSpec = req.TimeSpec
		return d, nil
	}

	picker := dayoff.NewSlotPicker(h.slots)
	for _, i := range req.Slots {
		if !picker.Select(i) {
			return d, fmt.Errorf("时间段 %d 不存在", i)
		}
	}
	spec, ok := picker.TimeSpec()
	if !ok {
		return d, dayoff.ErrInvalidTimeSpec
	}
	d.TimeSpec = spec
	return d, nil
}

func containsDay(days []string, date string) bool {
	for _, d := range days {
		if d == date {
			return true
		}
	}
	return false
}
