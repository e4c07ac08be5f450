package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/grid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/notify"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/roster"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/utils"
)

type rosterResponse struct {
	*roster.Month
	Slots   []string         `json:"slots"`
	Helpers []*domain.Helper `json:"helpers"`
	Rows    int              `json:"rows"`
	Cols    int              `json:"cols"`
	Grid    gridSettings     `json:"grid"`
}

// gridSettings 是客户端窗口化和滚动判定使用的参数
type gridSettings struct {
	RowHeight     float64 `json:"rowHeight"`
	ColumnWidth   float64 `json:"columnWidth"`
	Buffer        int     `json:"buffer"`
	SettleDelayMS int64   `json:"settleDelayMs"`
}

func (h *Handler) gridSettings() gridSettings {
	return gridSettings{
		RowHeight:     h.config.Grid.RowHeight,
		ColumnWidth:   h.config.Grid.ColumnWidth,
		Buffer:        h.config.Grid.Buffer,
		SettleDelayMS: h.config.SettleDelay().Milliseconds(),
	}
}

func (h *Handler) slotTexts() []string {
	texts := make([]string, 0, len(h.slots))
	for _, s := range h.slots {
		texts = append(texts, s.String())
	}
	return texts
}

// loadBoard 读取一个月的数据并按网格布局组装
func (h *Handler) loadBoard(ctx context.Context, month Month) (*roster.Month, *roster.Board, error) {
	m, err := h.loader.Load(ctx, month.Year, month.Month)
	if err != nil {
		return nil, nil, err
	}
	helpers, err := h.activeHelpers(ctx)
	if err != nil {
		return nil, nil, err
	}

	layout := roster.NewLayout(h.slots, m.Days, helpers)
	return m, roster.NewBoard(layout, m.Shifts, h.defaultService()), nil
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	m, board, err := h.loadBoard(r.Context(), month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	bounds := board.Layout().Bounds()
	h.successResponse(w, r, "获取排班表成功", rosterResponse{
		Month:   m,
		Slots:   h.slotTexts(),
		Helpers: board.Layout().Helpers,
		Rows:    bounds.Rows,
		Cols:    bounds.Cols,
		Grid:    h.gridSettings(),
	})
}

func (h *Handler) SaveShifts(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	var req struct {
		Shifts []*domain.Shift `json:"shifts" validate:"required,dive,required"`
	}
	if !h.readAndValidate(w, r, &req) {
		return
	}

	now := time.Now()
	for _, shift := range req.Shifts {
		if shift.ID == "" {
			shift.ID = uuid.NewString()
		}
		if shift.ServiceType == "" {
			shift.ServiceType = h.defaultService()
		}
		shift.UpdatedAt = now
	}
	if err := utils.ValidateShiftTimes(req.Shifts); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.loader.SaveShifts(r.Context(), month.Year, month.Month, req.Shifts); err != nil {
		h.saveError(w, r, err)
		return
	}
	h.publishChange(r.Context(), month, notify.ChangeShifts)

	h.successResponse(w, r, "保存班次成功", req.Shifts)
}

type cellEdit struct {
	HelperID int64  `json:"helperId" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Slot     int    `json:"slot" validate:"gte=0"`
	Text     string `json:"text" validate:"max=200"`
}

// EditCells 把单元格编辑后的文本 "HH:MM-HH:MM 客户名" 写回班次
func (h *Handler) EditCells(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	var req struct {
		Edits []cellEdit `json:"edits" validate:"required,min=1,dive"`
	}
	if !h.readAndValidate(w, r, &req) {
		return
	}

	_, board, err := h.loadBoard(r.Context(), month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	layout := board.Layout()
	edits := make([]roster.CellText, 0, len(req.Edits))
	for i, edit := range req.Edits {
		pos, ok := layout.Find(edit.HelperID, edit.Date, edit.Slot)
		if !ok {
			h.errorResponse(w, r, fmt.Sprintf("第 %d 项编辑的单元格不存在", i+1))
			return
		}
		edits = append(edits, roster.CellText{Cell: layout.CellOf(pos), Text: edit.Text})
	}

	edited, err := board.ApplyEdits(edits)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.saveBoard(w, r, month, board.Snapshot(), edited)
}

// ClearCells 清空一个矩形选区内的所有班次
func (h *Handler) ClearCells(w http.ResponseWriter, r *http.Request) {
	month := r.Context().Value(MonthCtx).(Month)

	var req struct {
		Range grid.SelectionRange `json:"range"`
	}
	if !h.readAndValidate(w, r, &req) {
		return
	}

	_, board, err := h.loadBoard(r.Context(), month)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	cleared, err := board.ClearSelection(req.Range)
	if err != nil {
		h.errorResponse(w, r, "选区超出网格范围")
		return
	}

	h.saveBoard(w, r, month, board.Snapshot(), cleared)
}

func (h *Handler) saveBoard(w http.ResponseWriter, r *http.Request, month Month, before map[string]*domain.Shift, board *roster.Board) {
	changed := changedShifts(before, board.Snapshot())
	if len(changed) == 0 {
		h.successResponse(w, r, "没有需要保存的修改", []*domain.Shift{})
		return
	}
	if err := utils.ValidateShiftTimes(board.Shifts()); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.loader.SaveShifts(r.Context(), month.Year, month.Month, changed); err != nil {
		h.saveError(w, r, err)
		return
	}
	h.publishChange(r.Context(), month, notify.ChangeShifts)

	h.successResponse(w, r, "保存班次成功", changed)
}

// changedShifts Board 的修改总是替换指针，因此只需比较指针
func changedShifts(before, after map[string]*domain.Shift) []*domain.Shift {
	changed := make([]*domain.Shift, 0)
	for key, shift := range after {
		if before[key] != shift {
			changed = append(changed, shift)
		}
	}
	return changed
}

func (h *Handler) saveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidMonth),
		errors.Is(err, repository.ErrShiftOutOfMonth),
		errors.Is(err, repository.ErrKeyOutOfMonth),
		errors.Is(err, repository.ErrInvalidKey):
		h.badRequest(w, r, err)
	default:
		h.internalServerError(w, r, err)
	}
}

// publishChange 通知其他客户端并投递工资计算任务，失败只记录日志
func (h *Handler) publishChange(ctx context.Context, month Month, kind notify.ChangeKind) {
	buckets := roster.Buckets(month.Year, month.Month)

	for _, b := range buckets {
		if h.redisClient != nil {
			if err := h.redisClient.Del(ctx, payrollCacheKey(b.Year, b.Month)).Err(); err != nil {
				slog.Error("无法清除工资缓存", "month", b.Prefix(), "error", err)
			}
		}
		if h.broker != nil {
			ev := notify.ChangeEvent{Year: b.Year, Month: b.Month, Kind: kind}
			if err := h.broker.PublishShiftsChanged(ctx, ev); err != nil {
				slog.Error("无法发布变更消息", "month", b.Prefix(), "error", err)
			}
		}
		if h.payrollQueue != nil && kind == notify.ChangeShifts {
			if err := h.payrollQueue.Publish(ctx, domain.PayrollJob{Year: b.Year, Month: b.Month}); err != nil {
				slog.Error("无法投递工资计算任务", "month", b.Prefix(), "error", err)
			}
		}
	}
}
