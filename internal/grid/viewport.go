package grid

import "math"

// IndexRange 是左闭右开区间 [Start, End)
type IndexRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r IndexRange) Len() int {
	return r.End - r.Start
}

func (r IndexRange) Contains(i int) bool {
	return i >= r.Start && i < r.End
}

// Window 计算一维虚拟列表中需要渲染的下标范围
type Window struct {
	Total         int
	ItemSize      float64
	ContainerSize float64
	Buffer        int
}

// VisibleRange 保证 0 <= Start <= End <= Total。
// NaN 的偏移和容器尺寸按 0 处理，无穷大按 Total 截断
func (w Window) VisibleRange(scrollOffset float64) IndexRange {
	if w.Total <= 0 || !(w.ItemSize > 0) || math.IsInf(w.ItemSize, 1) {
		return IndexRange{}
	}
	buffer := max(w.Buffer, 0)
	total := float64(w.Total)

	first := clampIndex(math.Floor(scrollOffset/w.ItemSize), total+float64(buffer))
	start := min(max(int(first)-buffer, 0), w.Total)

	visible := int(clampIndex(math.Ceil(w.ContainerSize/w.ItemSize), total))
	end := min(w.Total, start+visible+2*buffer)

	return IndexRange{Start: start, End: end}
}

// clampIndex 把浮点下标限制在 [0, limit]，再转换为 int 不会溢出
func clampIndex(v, limit float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, limit)
}

// TotalSize 是滚动内容的总长度
func (w Window) TotalSize() float64 {
	return float64(w.Total) * w.ItemSize
}

func (w Window) OffsetOf(index int) float64 {
	return float64(index) * w.ItemSize
}

// GridWindow 同时对行（时间段）和列（日期 × 助理）做窗口化
type GridWindow struct {
	Rows Window
	Cols Window
}

func (g GridWindow) Visible(scrollTop, scrollLeft float64) (rows, cols IndexRange) {
	return g.Rows.VisibleRange(scrollTop), g.Cols.VisibleRange(scrollLeft)
}

// OffsetFilter 只有滚动距离超过半个元素时才向下游传播
type OffsetFilter struct {
	threshold float64
	last      float64
	seen      bool
}

func NewOffsetFilter(itemSize float64) *OffsetFilter {
	return &OffsetFilter{threshold: itemSize / 2}
}

func (f *OffsetFilter) Update(offset float64) (float64, bool) {
	if f.seen && math.Abs(offset-f.last) <= f.threshold {
		return f.last, false
	}
	f.last = offset
	f.seen = true
	return offset, true
}

func (f *OffsetFilter) Last() float64 {
	return f.last
}
