package dayoff

import (
	"fmt"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

// DefaultSlots 是一天中可选的时间段，也是排班网格的行
var DefaultSlots = []string{
	"06:00-09:00",
	"09:00-12:00",
	"12:00-15:00",
	"15:00-18:00",
	"18:00-22:00",
}

func ParseSlots(texts []string) ([]timeutil.Range, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("时间段列表为空")
	}
	slots := make([]timeutil.Range, 0, len(texts))
	for _, text := range texts {
		r, ok := timeutil.ParseRange(text)
		if !ok {
			return nil, fmt.Errorf("无法解析时间段 %q", text)
		}
		slots = append(slots, r)
	}
	return slots, nil
}

// SlotPicker 处理休假申请的时间段选择：第二次点击选中两者之间的闭区间，
// 再次点击已选中的时间段会清空整个选择
type SlotPicker struct {
	slots  []timeutil.Range
	anchor int
	lo, hi int
	picked bool
}

func NewSlotPicker(slots []timeutil.Range) *SlotPicker {
	return &SlotPicker{slots: slots}
}

// Select 点击第 i 个时间段，越界时返回 false
func (p *SlotPicker) Select(i int) bool {
	if i < 0 || i >= len(p.slots) {
		return false
	}

	switch {
	case !p.picked:
		p.anchor, p.lo, p.hi = i, i, i
		p.picked = true
	case i >= p.lo && i <= p.hi:
		p.Reset()
	default:
		p.lo = min(p.anchor, i)
		p.hi = max(p.anchor, i)
	}
	return true
}

func (p *SlotPicker) Reset() {
	p.anchor, p.lo, p.hi = 0, 0, 0
	p.picked = false
}

func (p *SlotPicker) IsSelected(i int) bool {
	return p.picked && i >= p.lo && i <= p.hi
}

func (p *SlotPicker) Selected() []int {
	if !p.picked {
		return nil
	}
	indices := make([]int, 0, p.hi-p.lo+1)
	for i := p.lo; i <= p.hi; i++ {
		indices = append(indices, i)
	}
	return indices
}

// TimeSpec 返回选择对应的时间描述，全选时为 "all"，未选择时返回 false
func (p *SlotPicker) TimeSpec() (string, bool) {
	if !p.picked {
		return "", false
	}
	if p.lo == 0 && p.hi == len(p.slots)-1 {
		return domain.FullDay, true
	}
	return timeutil.FormatRange(p.slots[p.lo].Start, p.slots[p.hi].End), true
}
