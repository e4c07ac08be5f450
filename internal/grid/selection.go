package grid

import "sync"

type PointerButton int

const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
)

// PointerEvent 是开始拖选时的指针信息
type PointerEvent struct {
	Button   PointerButton
	Modifier bool // Shift/Ctrl 等修饰键是否按下
}

// ReleaseSource 是宿主环境的全局指针释放事件源，拖选期间订阅，结束后取消订阅
type ReleaseSource interface {
	OnRelease(handler func()) (unsubscribe func())
}

// SelectionRange 保存锚点和当前端点，两者不可交换
type SelectionRange struct {
	StartRow int `json:"startRow"`
	StartCol int `json:"startCol"`
	EndRow   int `json:"endRow"`
	EndCol   int `json:"endCol"`
}

type NormalizedRange struct {
	MinRow int `json:"minRow"`
	MaxRow int `json:"maxRow"`
	MinCol int `json:"minCol"`
	MaxCol int `json:"maxCol"`
}

// Normalize 每次都由 SelectionRange 重新计算，不单独保存
func (r SelectionRange) Normalize() NormalizedRange {
	return NormalizedRange{
		MinRow: min(r.StartRow, r.EndRow),
		MaxRow: max(r.StartRow, r.EndRow),
		MinCol: min(r.StartCol, r.EndCol),
		MaxCol: max(r.StartCol, r.EndCol),
	}
}

func (n NormalizedRange) Contains(c Cell) bool {
	return c.Row >= n.MinRow && c.Row <= n.MaxRow && c.Col >= n.MinCol && c.Col <= n.MaxCol
}

// Size 返回选区包含的单元格数
func (n NormalizedRange) Size() int {
	return (n.MaxRow - n.MinRow + 1) * (n.MaxCol - n.MinCol + 1)
}

// Cells 返回行范围和列范围的笛卡尔积，按行优先排列
func (n NormalizedRange) Cells() []Cell {
	cells := make([]Cell, 0, n.Size())
	for row := n.MinRow; row <= n.MaxRow; row++ {
		for col := n.MinCol; col <= n.MaxCol; col++ {
			cells = append(cells, Cell{Row: row, Col: col})
		}
	}
	return cells
}

// BorderOf 选区外的单元格返回空 Border
func (n NormalizedRange) BorderOf(cell Cell) Border {
	if !n.Contains(cell) {
		return Border{}
	}
	return Border{
		Top:    cell.Row == n.MinRow,
		Bottom: cell.Row == n.MaxRow,
		Left:   cell.Col == n.MinCol,
		Right:  cell.Col == n.MaxCol,
	}
}

// Border 标记单元格的哪些边与选区外框重合
type Border struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

func (b Border) Any() bool {
	return b.Top || b.Bottom || b.Left || b.Right
}

type SelectionPolicy struct {
	RequireModifier bool
}

// Selection 跟踪基于拖拽的矩形选区
type Selection struct {
	mu sync.Mutex

	policy   SelectionPolicy
	bounds   Bounds
	releases ReleaseSource

	rng         SelectionRange
	active      bool // 是否存在选区
	dragging    bool // 是否处于拖拽中
	unsubscribe func()

	OnChange   func(NormalizedRange)
	OnComplete func(NormalizedRange, []Cell)
}

func NewSelection(bounds Bounds, policy SelectionPolicy, releases ReleaseSource) *Selection {
	return &Selection{
		policy:   policy,
		bounds:   bounds,
		releases: releases,
	}
}

// Begin 以 cell 为锚点开始新的选区，被策略拒绝时返回 false
func (s *Selection) Begin(cell Cell, ev PointerEvent) bool {
	if ev.Button == ButtonSecondary {
		return false
	}
	if s.policy.RequireModifier && !ev.Modifier {
		return false
	}
	if !s.bounds.Contains(cell) {
		return false
	}

	s.mu.Lock()
	// 上一次拖拽未收到释放事件时直接丢弃
	s.detachLocked()
	s.rng = SelectionRange{StartRow: cell.Row, StartCol: cell.Col, EndRow: cell.Row, EndCol: cell.Col}
	s.active = true
	s.dragging = true
	if s.releases != nil {
		s.unsubscribe = s.releases.OnRelease(s.Complete)
	}
	n := s.rng.Normalize()
	onChange := s.OnChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(n)
	}
	return true
}

// Extend 更新选区端点，没有进行中的拖拽时忽略
func (s *Selection) Extend(cell Cell) {
	s.mu.Lock()
	if !s.dragging {
		s.mu.Unlock()
		return
	}
	cell = s.bounds.Clamp(cell)
	if cell.Row == s.rng.EndRow && cell.Col == s.rng.EndCol {
		s.mu.Unlock()
		return
	}
	s.rng.EndRow = cell.Row
	s.rng.EndCol = cell.Col
	n := s.rng.Normalize()
	onChange := s.OnChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(n)
	}
}

// Complete 结束拖拽，每次拖拽只通知一次
func (s *Selection) Complete() {
	s.mu.Lock()
	if !s.dragging {
		s.mu.Unlock()
		return
	}
	s.dragging = false
	s.detachLocked()
	n := s.rng.Normalize()
	onComplete := s.OnComplete
	s.mu.Unlock()

	cells := n.Cells()
	if onComplete != nil && len(cells) > 0 {
		onComplete(n, cells)
	}
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.detachLocked()
	s.rng = SelectionRange{}
	s.active = false
	s.dragging = false
}

func (s *Selection) detachLocked() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}

func (s *Selection) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Selection) Dragging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dragging
}

func (s *Selection) Range() (SelectionRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng, s.active
}

func (s *Selection) Normalized() (NormalizedRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Normalize(), s.active
}

func (s *Selection) Cells() []Cell {
	n, ok := s.Normalized()
	if !ok {
		return nil
	}
	return n.Cells()
}

func (s *Selection) IsCellSelected(cell Cell) bool {
	n, ok := s.Normalized()
	return ok && n.Contains(cell)
}

// IsCellOnBorder 用于只给选区画一个外框，不画内部格线
func (s *Selection) IsCellOnBorder(cell Cell) Border {
	n, ok := s.Normalized()
	if !ok {
		return Border{}
	}
	return n.BorderOf(cell)
}
