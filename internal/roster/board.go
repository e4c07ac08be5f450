package roster

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/grid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

var ErrInvalidShiftText = errors.New("班次格式应为 HH:MM-HH:MM 客户名")

// Board 是一个月视图中 单元格 -> 班次 的映射。
// 修改总是返回新的 Board，旧的 Board 和其中的班次不会被改动
type Board struct {
	layout  *Layout
	cells   map[string][]*domain.Shift // 未删除的班次排在前面
	service domain.ServiceType
	now     func() time.Time
}

func cellKey(helperID int64, date string, slot int) string {
	return fmt.Sprintf("%s#%d", domain.DayOffKey(helperID, date), slot)
}

// NewBoard 按开始时间把班次放入对应的时间段。
// 同一单元格有多个未删除的班次时，开始最早的显示在单元格中，其余的叠放在它之后；
// 已删除的班次只保留用于保存，不会遮住未删除的班次
func NewBoard(layout *Layout, shifts []*domain.Shift, service domain.ServiceType) *Board {
	b := &Board{
		layout:  layout,
		cells:   make(map[string][]*domain.Shift, len(shifts)),
		service: service,
		now:     time.Now,
	}
	for _, shift := range shifts {
		start, ok := timeutil.ParseTimeToMinutes(shift.StartTime)
		if !ok {
			start = 0
		}
		key := cellKey(shift.HelperID, shift.Date, layout.SlotOf(start))
		b.cells[key] = append(b.cells[key], shift)
	}
	for _, cell := range b.cells {
		sortCell(cell)
	}
	return b
}

func sortCell(cell []*domain.Shift) {
	sort.SliceStable(cell, func(i, j int) bool {
		if cell[i].Deleted != cell[j].Deleted {
			return !cell[i].Deleted
		}
		if cell[i].StartTime != cell[j].StartTime {
			return cell[i].StartTime < cell[j].StartTime
		}
		return cell[i].ID < cell[j].ID
	})
}

func (b *Board) Layout() *Layout {
	return b.layout
}

func (b *Board) keyOf(cell grid.Cell) (string, Position, bool) {
	p, ok := b.layout.Locate(cell)
	if !ok {
		return "", Position{}, false
	}
	helper := b.layout.Helpers[p.Helper]
	return cellKey(helper.ID, b.layout.Days[p.Day], p.Slot), p, true
}

// live 返回单元格中未删除的班次
func (b *Board) live(key string) []*domain.Shift {
	cell := b.cells[key]
	n := 0
	for n < len(cell) && !cell[n].Deleted {
		n++
	}
	return cell[:n]
}

// Shift 返回单元格中显示的班次
func (b *Board) Shift(cell grid.Cell) (*domain.Shift, bool) {
	key, _, ok := b.keyOf(cell)
	if !ok {
		return nil, false
	}
	live := b.live(key)
	if len(live) == 0 {
		return nil, false
	}
	return live[0], true
}

// Stacked 返回单元格中未显示的其他班次数
func (b *Board) Stacked(cell grid.Cell) int {
	key, _, ok := b.keyOf(cell)
	if !ok {
		return 0
	}
	return max(len(b.live(key))-1, 0)
}

// Text 返回单元格的编辑文本 "HH:MM-HH:MM 客户名"
func (b *Board) Text(cell grid.Cell) string {
	shift, ok := b.Shift(cell)
	if !ok {
		return ""
	}
	if shift.ClientName == "" {
		return shift.TimeRange()
	}
	return shift.TimeRange() + " " + shift.ClientName
}

// Revision 标识单元格内容的版本，用作渲染缓存的依赖
func (b *Board) Revision(cell grid.Cell) string {
	shift, ok := b.Shift(cell)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s|%s|%s|%d|+%d", shift.ID, shift.TimeRange(), shift.ClientName, shift.UpdatedAt.UnixNano(), b.Stacked(cell))
}

// ApplyText 把编辑后的文本写回单元格中显示的班次。
// 文本为空时把单元格中所有未删除的班次标记为删除
func (b *Board) ApplyText(cell grid.Cell, text string) (*Board, error) {
	key, p, ok := b.keyOf(cell)
	if !ok {
		return b, fmt.Errorf("单元格 (%d, %d) 超出范围", cell.Row, cell.Col)
	}
	live := b.live(key)

	text = strings.TrimSpace(text)
	if text == "" {
		if len(live) == 0 {
			return b, nil
		}
		next := slices.Clone(b.cells[key])
		for i := range live {
			updated := *next[i]
			updated.Deleted = true
			updated.UpdatedAt = b.now()
			next[i] = &updated
		}
		return b.with(key, next), nil
	}

	rangeText, client, _ := strings.Cut(text, " ")
	r, ok := timeutil.ParseRange(rangeText)
	if !ok {
		return b, ErrInvalidShiftText
	}

	var updated domain.Shift
	if len(live) > 0 {
		updated = *live[0]
	} else {
		// 已删除的班次不会复活，总是新建
		updated = domain.Shift{
			ID:          uuid.NewString(),
			Date:        b.layout.Days[p.Day],
			HelperID:    b.layout.Helpers[p.Helper].ID,
			ServiceType: b.service,
		}
	}
	updated.StartTime = timeutil.FormatMinutes(r.Start)
	updated.EndTime = timeutil.FormatMinutes(r.End)
	updated.ClientName = strings.TrimSpace(client)
	updated.Deleted = false
	updated.UpdatedAt = b.now()

	next := slices.Clone(b.cells[key])
	if len(live) > 0 {
		next[0] = &updated
	} else {
		next = append([]*domain.Shift{&updated}, next...)
	}
	return b.with(key, next), nil
}

// CellText 是一次单元格编辑的结果
type CellText struct {
	Cell grid.Cell
	Text string
}

// ApplyEdits 通过编辑状态机依次重放编辑，文本未变化的单元格不会写回
func (b *Board) ApplyEdits(edits []CellText) (*Board, error) {
	next := b
	var applyErr error
	editor := grid.NewEditor(b.layout.Bounds(), func(cell grid.Cell) string {
		return next.Text(cell)
	}, func(cell grid.Cell, draft string) {
		if applyErr != nil {
			return
		}
		updated, err := next.ApplyText(cell, draft)
		if err != nil {
			applyErr = fmt.Errorf("单元格 (%d, %d): %w", cell.Row, cell.Col, err)
			return
		}
		next = updated
	})

	for _, edit := range edits {
		if !b.layout.Bounds().Contains(edit.Cell) {
			return b, fmt.Errorf("单元格 (%d, %d) 超出范围", edit.Cell.Row, edit.Cell.Col)
		}
		// 切换焦点会提交上一个单元格
		editor.Focus(edit.Cell)
		editor.Handle(grid.InputEvent{Type: grid.EventActivate})
		editor.Handle(grid.InputEvent{Type: grid.EventInput, Text: edit.Text})
	}
	editor.Handle(grid.InputEvent{Type: grid.EventBlur})

	if applyErr != nil {
		return b, applyErr
	}
	return next, nil
}

// ClearRange 清空选区内的所有班次
func (b *Board) ClearRange(r grid.NormalizedRange) *Board {
	return b.clearCells(r.Cells())
}

// ClearSelection 按一次拖选重放选区，清空选区完成时给出的单元格
func (b *Board) ClearSelection(rng grid.SelectionRange) (*Board, error) {
	bounds := b.layout.Bounds()
	end := grid.Cell{Row: rng.EndRow, Col: rng.EndCol}
	if !bounds.Contains(end) {
		return b, fmt.Errorf("单元格 (%d, %d) 超出范围", end.Row, end.Col)
	}

	next := b
	sel := grid.NewSelection(bounds, grid.SelectionPolicy{}, nil)
	sel.OnComplete = func(_ grid.NormalizedRange, cells []grid.Cell) {
		next = b.clearCells(cells)
	}
	if !sel.Begin(grid.Cell{Row: rng.StartRow, Col: rng.StartCol}, grid.PointerEvent{}) {
		return b, fmt.Errorf("单元格 (%d, %d) 超出范围", rng.StartRow, rng.StartCol)
	}
	sel.Extend(end)
	sel.Complete()
	return next, nil
}

func (b *Board) clearCells(cells []grid.Cell) *Board {
	next := b
	for _, cell := range cells {
		next, _ = next.ApplyText(cell, "")
	}
	return next
}

func (b *Board) with(key string, cell []*domain.Shift) *Board {
	cells := maps.Clone(b.cells)
	cells[key] = cell
	return &Board{
		layout:  b.layout,
		cells:   cells,
		service: b.service,
		now:     b.now,
	}
}

// Shifts 返回所有班次，包括已标记删除的和叠放的，用于保存
func (b *Board) Shifts() []*domain.Shift {
	result := make([]*domain.Shift, 0, len(b.cells))
	for _, cell := range b.cells {
		result = append(result, cell...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime < result[j].StartTime
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Snapshot 返回 班次 id -> 班次 的映射。修改总是替换指针，比较两个快照即可找出改动的班次
func (b *Board) Snapshot() map[string]*domain.Shift {
	result := make(map[string]*domain.Shift, len(b.cells))
	for _, cell := range b.cells {
		for _, shift := range cell {
			result[shift.ID] = shift
		}
	}
	return result
}
