package grid

import "unicode/utf8"

type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "viewing"
}

const (
	KeyEnter      = "Enter"
	KeyTab        = "Tab"
	KeyEscape     = "Escape"
	KeyF2         = "F2"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

type EventType int

const (
	EventKeyDown EventType = iota
	EventCompositionStart
	EventCompositionEnd
	EventInput
	EventBlur
	EventActivate
)

// InputEvent 是与具体输入控件无关的输入事件
type InputEvent struct {
	Type  EventType
	Key   string // EventKeyDown: 键名或可打印字符
	Text  string // EventInput / EventCompositionEnd: 输入框当前的完整文本
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
	DirNext
	DirPrev
)

// Session 是一次编辑会话
type Session struct {
	Cell      Cell
	Original  string
	Draft     string
	SelectAll bool // 通过激活进入时全选，通过按键进入时光标置于末尾
	closed    bool
}

type EditState struct {
	Mode   Mode `json:"mode"`
	Active Cell `json:"active"`
}

// Editor 管理整个网格的单元格编辑状态，任意时刻最多只有一个单元格处于编辑中。
// Editor 只能在同一个事件循环中使用。
type Editor struct {
	bounds    Bounds
	value     func(Cell) string
	commit    func(Cell, string)
	active    Cell
	session   *Session
	composing bool
}

// NewEditor value 读取单元格当前文本，commit 在草稿发生变化时写回
func NewEditor(bounds Bounds, value func(Cell) string, commit func(Cell, string)) *Editor {
	return &Editor{
		bounds: bounds,
		value:  value,
		commit: commit,
	}
}

func (e *Editor) State() EditState {
	mode := ModeViewing
	if e.session != nil {
		mode = ModeEditing
	}
	return EditState{Mode: mode, Active: e.active}
}

func (e *Editor) Active() Cell {
	return e.active
}

func (e *Editor) IsEditing(cell Cell) bool {
	return e.session != nil && e.session.Cell == cell
}

func (e *Editor) Session() (Session, bool) {
	if e.session == nil {
		return Session{}, false
	}
	return *e.session, true
}

func (e *Editor) Composing() bool {
	return e.composing
}

// Focus 把焦点移到 cell，正在编辑其他单元格时先提交
func (e *Editor) Focus(cell Cell) {
	if !e.bounds.Contains(cell) {
		return
	}
	if e.session != nil && e.session.Cell != cell {
		e.Commit()
	}
	e.active = cell
}

// Handle 处理一个输入事件，返回 false 表示事件应交给输入控件自身处理
func (e *Editor) Handle(ev InputEvent) bool {
	switch ev.Type {
	case EventActivate:
		return e.Activate()
	case EventBlur:
		e.composing = false
		return e.Commit()
	case EventCompositionStart:
		if e.session == nil {
			e.begin("", false)
		}
		e.composing = true
		return true
	case EventCompositionEnd:
		e.composing = false
		if e.session != nil {
			e.session.Draft = ev.Text
		}
		return true
	case EventInput:
		if e.session == nil {
			return false
		}
		e.session.Draft = ev.Text
		e.session.SelectAll = false
		return true
	case EventKeyDown:
		if e.session != nil {
			return e.handleEditingKey(ev)
		}
		return e.handleViewingKey(ev)
	}
	return false
}

func (e *Editor) handleViewingKey(ev InputEvent) bool {
	switch ev.Key {
	case KeyArrowUp:
		return e.Move(DirUp)
	case KeyArrowDown:
		return e.Move(DirDown)
	case KeyArrowLeft:
		return e.Move(DirLeft)
	case KeyArrowRight:
		return e.Move(DirRight)
	case KeyTab:
		if ev.Shift {
			return e.Move(DirPrev)
		}
		return e.Move(DirNext)
	case KeyEnter, KeyF2:
		return e.Activate()
	}

	if isPrintable(ev) {
		e.begin(ev.Key, false)
		return true
	}
	return false
}

func (e *Editor) handleEditingKey(ev InputEvent) bool {
	// 输入法组字期间所有按键都交给输入控件
	if e.composing {
		return false
	}

	switch ev.Key {
	case KeyEnter:
		e.Commit()
		return true
	case KeyTab:
		e.Commit()
		if ev.Shift {
			e.Move(DirPrev)
		} else {
			e.Move(DirNext)
		}
		return true
	case KeyEscape:
		e.Cancel()
		return true
	}
	// 方向键等作为普通的光标移动处理
	return false
}

// Activate 以全选的方式进入编辑
func (e *Editor) Activate() bool {
	if e.session != nil {
		return false
	}
	e.begin("", true)
	return true
}

func (e *Editor) begin(typed string, selectAll bool) {
	original := ""
	if e.value != nil {
		original = e.value(e.active)
	}
	e.session = &Session{
		Cell:      e.active,
		Original:  original,
		Draft:     original + typed,
		SelectAll: selectAll,
	}
}

// Commit 结束编辑并在草稿变化时写回，重复调用不会重复写入
func (e *Editor) Commit() bool {
	s := e.session
	if s == nil || s.closed {
		return false
	}
	// 先关闭会话再回调，失焦和回车同时触发时只写一次
	s.closed = true
	e.session = nil
	e.composing = false

	if s.Draft == s.Original {
		return false
	}
	if e.commit != nil {
		e.commit(s.Cell, s.Draft)
	}
	return true
}

// Cancel 丢弃草稿
func (e *Editor) Cancel() {
	if e.session == nil {
		return
	}
	e.session.closed = true
	e.session = nil
	e.composing = false
}

// Move 只在浏览模式下生效
func (e *Editor) Move(dir Direction) bool {
	if e.session != nil {
		return false
	}
	next := e.active
	switch dir {
	case DirUp:
		next.Row--
	case DirDown:
		next.Row++
	case DirLeft:
		next.Col--
	case DirRight:
		next.Col++
	case DirNext:
		next.Col++
		if next.Col >= e.bounds.Cols {
			if next.Row+1 >= e.bounds.Rows {
				return false
			}
			next.Col = 0
			next.Row++
		}
	case DirPrev:
		next.Col--
		if next.Col < 0 {
			if next.Row == 0 {
				return false
			}
			next.Col = e.bounds.Cols - 1
			next.Row--
		}
	}
	if !e.bounds.Contains(next) {
		return false
	}
	e.active = next
	return true
}

func isPrintable(ev InputEvent) bool {
	if ev.Ctrl || ev.Alt || ev.Meta {
		return false
	}
	if utf8.RuneCountInString(ev.Key) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(ev.Key)
	return r >= 0x20 && r != 0x7f
}
