package roster

import (
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/grid"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

// Layout 把网格坐标映射为 (时间段, 日期, 助理)。
// 行是时间段，列按日期分组，每组内依次是各个助理：col = day*len(helpers) + helper
type Layout struct {
	Slots   []timeutil.Range
	Days    []string
	Helpers []*domain.Helper
}

func NewLayout(slots []timeutil.Range, days []string, helpers []*domain.Helper) *Layout {
	return &Layout{Slots: slots, Days: days, Helpers: helpers}
}

func (l *Layout) Bounds() grid.Bounds {
	return grid.Bounds{Rows: len(l.Slots), Cols: len(l.Days) * len(l.Helpers)}
}

// Position 是单元格对应的业务坐标
type Position struct {
	Slot   int
	Day    int
	Helper int
}

func (l *Layout) Locate(cell grid.Cell) (Position, bool) {
	if len(l.Helpers) == 0 || !l.Bounds().Contains(cell) {
		return Position{}, false
	}
	return Position{
		Slot:   cell.Row,
		Day:    cell.Col / len(l.Helpers),
		Helper: cell.Col % len(l.Helpers),
	}, true
}

func (l *Layout) CellOf(p Position) grid.Cell {
	return grid.Cell{Row: p.Slot, Col: p.Day*len(l.Helpers) + p.Helper}
}

// Find 按助理 ID 和日期查找位置，找不到时返回 false
func (l *Layout) Find(helperID int64, date string, slot int) (Position, bool) {
	if slot < 0 || slot >= len(l.Slots) {
		return Position{}, false
	}
	day, helper := -1, -1
	for i, d := range l.Days {
		if d == date {
			day = i
			break
		}
	}
	for i, h := range l.Helpers {
		if h.ID == helperID {
			helper = i
			break
		}
	}
	if day < 0 || helper < 0 {
		return Position{}, false
	}
	return Position{Slot: slot, Day: day, Helper: helper}, true
}

func (l *Layout) UnitKey(p Position) grid.UnitKey {
	return grid.UnitKey{Slot: p.Slot, Day: p.Day, Helper: p.Helper}
}

// SlotOf 返回开始时间所在的时间段，早于第一个时间段时归入第一个
func (l *Layout) SlotOf(startMinutes int) int {
	slot := 0
	for i, r := range l.Slots {
		if r.Start <= startMinutes {
			slot = i
		}
	}
	return slot
}

// Columns 返回列的窗口化参数
func (l *Layout) Columns(columnWidth, viewportWidth float64, buffer int) grid.Window {
	return grid.Window{
		Total:         l.Bounds().Cols,
		ItemSize:      columnWidth,
		ContainerSize: viewportWidth,
		Buffer:        buffer,
	}
}
