package dayoff

import "github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"

// ToggleHelperMonth 对某个助理的所有日期做整体切换
func (s State) ToggleHelperMonth(helperID int64, dates []string) State {
	keys := make([]string, 0, len(dates))
	for _, date := range dates {
		keys = append(keys, domain.DayOffKey(helperID, date))
	}
	return s.toggleAll(keys)
}

// ToggleDateAllHelpers 对某一天的所有助理做整体切换
func (s State) ToggleDateAllHelpers(date string, helperIDs []int64) State {
	keys := make([]string, 0, len(helperIDs))
	for _, id := range helperIDs {
		keys = append(keys, domain.DayOffKey(id, date))
	}
	return s.toggleAll(keys)
}

// toggleAll 所有键都已存在时全部清除，否则全部设为全天休假申请。
// 固定休息日只会被清除，不会被批量创建。
func (s State) toggleAll(keys []string) State {
	if len(keys) == 0 {
		return s
	}

	allPresent := true
	for _, key := range keys {
		if !s.Has(key) {
			allPresent = false
			break
		}
	}

	next := s.Clone()
	for _, key := range keys {
		if allPresent {
			delete(next.Requests, key)
			delete(next.Scheduled, key)
			delete(next.Display, key)
		} else {
			next.Requests[key] = domain.FullDay
		}
	}
	return next
}

type EntryKind int

const (
	EntryNone EntryKind = iota
	EntryScheduled
	EntryRequest
	EntryDisplay
)

func (k EntryKind) String() string {
	switch k {
	case EntryScheduled:
		return "scheduled"
	case EntryRequest:
		return "request"
	case EntryDisplay:
		return "display"
	}
	return "none"
}

// Entry 是单元格最终显示的内容
type Entry struct {
	Kind EntryKind `json:"kind"`
	Text string    `json:"text"`
}

// Effective 按 固定休息日 > 休假申请 > 显示文本 的优先级决定单元格内容
func (s State) Effective(key string) Entry {
	if s.Scheduled[key] {
		return Entry{Kind: EntryScheduled, Text: domain.FullDay}
	}
	if spec, ok := s.Requests[key]; ok {
		return Entry{Kind: EntryRequest, Text: spec}
	}
	if text, ok := s.Display[key]; ok {
		return Entry{Kind: EntryDisplay, Text: text}
	}
	return Entry{}
}

func (k EntryKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
