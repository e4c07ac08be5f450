package dayoff

import (
	"errors"
	"maps"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

var ErrInvalidTimeSpec = errors.New("休假时间段格式不正确")

// State 保存一个月的三张休假表，键均为 "{helperID}-{date}"。
// 所有修改都返回新的 State，原有的 map 不会被改动。
type State struct {
	Requests  map[string]string `json:"requests"`  // 休假申请 -> "all" 或 HH:MM-HH:MM
	Scheduled map[string]bool   `json:"scheduled"` // 固定休息日，总是全天
	Display   map[string]string `json:"display"`   // 单元格显示的自由文本
}

func NewState() State {
	return State{
		Requests:  make(map[string]string),
		Scheduled: make(map[string]bool),
		Display:   make(map[string]string),
	}
}

// Clone 复制三张表，nil map 会被替换为空 map
func (s State) Clone() State {
	c := NewState()
	maps.Copy(c.Requests, s.Requests)
	maps.Copy(c.Scheduled, s.Scheduled)
	maps.Copy(c.Display, s.Display)
	return c
}

// Has 判断任意一张表中是否存在该键
func (s State) Has(key string) bool {
	if _, ok := s.Requests[key]; ok {
		return true
	}
	if _, ok := s.Scheduled[key]; ok {
		return true
	}
	_, ok := s.Display[key]
	return ok
}

func (s State) Len() int {
	keys := make(map[string]struct{})
	for k := range s.Requests {
		keys[k] = struct{}{}
	}
	for k := range s.Scheduled {
		keys[k] = struct{}{}
	}
	for k := range s.Display {
		keys[k] = struct{}{}
	}
	return len(keys)
}

type ToggleResult int

const (
	// ToggleCleared 键已从三张表中删除
	ToggleCleared ToggleResult = iota
	// ToggleNeedsDecision 键不存在，需要调用方决定写入申请还是固定休息日
	ToggleNeedsDecision
)

// Toggle 存在时从三张表中同时删除，否则返回 ToggleNeedsDecision 且不做修改
func (s State) Toggle(helperID int64, date string) (State, ToggleResult) {
	key := domain.DayOffKey(helperID, date)
	if !s.Has(key) {
		return s, ToggleNeedsDecision
	}

	next := s.Clone()
	delete(next.Requests, key)
	delete(next.Scheduled, key)
	delete(next.Display, key)
	return next, ToggleCleared
}

type Kind int

const (
	KindRequest Kind = iota
	KindScheduled
)

// Decision 是 Toggle 返回 ToggleNeedsDecision 后用户做出的选择
type Decision struct {
	HelperID int64
	Date     string
	Kind     Kind
	TimeSpec string // 仅对 KindRequest 有效，为空时视为全天
}

func (s State) Apply(d Decision) (State, error) {
	key := domain.DayOffKey(d.HelperID, d.Date)
	next := s.Clone()

	switch d.Kind {
	case KindScheduled:
		next.Scheduled[key] = true
	default:
		spec, err := NormalizeTimeSpec(d.TimeSpec)
		if err != nil {
			return s, err
		}
		next.Requests[key] = spec
	}
	return next, nil
}

// SetDisplay 设置单元格显示文本，text 为空时删除
func (s State) SetDisplay(helperID int64, date, text string) State {
	key := domain.DayOffKey(helperID, date)
	next := s.Clone()
	if text == "" {
		delete(next.Display, key)
	} else {
		next.Display[key] = text
	}
	return next
}

// NormalizeTimeSpec 接受 "all"、空串或 HH:MM-HH:MM
func NormalizeTimeSpec(spec string) (string, error) {
	if spec == "" || spec == domain.FullDay {
		return domain.FullDay, nil
	}
	r, ok := timeutil.ParseRange(spec)
	if !ok || r.Duration() == 0 {
		return "", ErrInvalidTimeSpec
	}
	return r.String(), nil
}

// Filter 只保留键的日期满足 keep 的条目
func (s State) Filter(keep func(date string) bool) State {
	next := NewState()
	for k, v := range s.Requests {
		if keep(domain.KeyDate(k)) {
			next.Requests[k] = v
		}
	}
	for k, v := range s.Scheduled {
		if keep(domain.KeyDate(k)) {
			next.Scheduled[k] = v
		}
	}
	for k, v := range s.Display {
		if keep(domain.KeyDate(k)) {
			next.Display[k] = v
		}
	}
	return next
}

// Merge 合并 other，键相同时以 other 为准
func (s State) Merge(other State) State {
	next := s.Clone()
	maps.Copy(next.Requests, other.Requests)
	maps.Copy(next.Scheduled, other.Scheduled)
	maps.Copy(next.Display, other.Display)
	return next
}
