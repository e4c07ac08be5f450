package roster

import (
	"context"
	"fmt"
	"maps"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/dayoff"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// Store 是按 (年, 月) 分区读写班次和休假表的持久化接口
type Store interface {
	GetShiftsByMonth(ctx context.Context, year, month int) ([]*domain.Shift, error)
	SaveShiftsForMonth(ctx context.Context, year, month int, shifts []*domain.Shift) error
	GetDayOffRequests(ctx context.Context, year, month int) (map[string]string, error)
	SaveDayOffRequests(ctx context.Context, year, month int, requests map[string]string) error
	GetScheduledDayOffs(ctx context.Context, year, month int) (map[string]bool, error)
	SaveScheduledDayOffs(ctx context.Context, year, month int, scheduled map[string]bool) error
	GetDisplayTexts(ctx context.Context, year, month int) (map[string]string, error)
	SaveDisplayTexts(ctx context.Context, year, month int, texts map[string]string) error
}

// Month 是一个月视图的全部数据
type Month struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Days    []string        `json:"days"`
	Shifts  []*domain.Shift `json:"shifts"`
	DayOffs dayoff.State    `json:"dayOffs"`
}

type Loader struct {
	store Store
}

func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

// Load 读取视图涉及的所有分区，十二月同时读取次年一月的前几天
func (l *Loader) Load(ctx context.Context, year, month int) (*Month, error) {
	if err := ValidateMonth(year, month); err != nil {
		return nil, err
	}

	m := &Month{
		Year:    year,
		Month:   month,
		Days:    MonthDays(year, month),
		Shifts:  []*domain.Shift{},
		DayOffs: dayoff.NewState(),
	}

	for _, b := range Buckets(year, month) {
		state, shifts, err := l.loadBucket(ctx, b)
		if err != nil {
			return nil, err
		}
		for _, shift := range shifts {
			if b.Covers(shift.Date) {
				m.Shifts = append(m.Shifts, shift)
			}
		}
		m.DayOffs = m.DayOffs.Merge(state.Filter(b.Covers))
	}

	return m, nil
}

func (l *Loader) loadBucket(ctx context.Context, b Bucket) (dayoff.State, []*domain.Shift, error) {
	shifts, err := l.store.GetShiftsByMonth(ctx, b.Year, b.Month)
	if err != nil {
		return dayoff.State{}, nil, fmt.Errorf("读取 %s 的班次失败: %w", b.Prefix(), err)
	}

	state := dayoff.NewState()
	if state.Requests, err = l.store.GetDayOffRequests(ctx, b.Year, b.Month); err != nil {
		return dayoff.State{}, nil, fmt.Errorf("读取 %s 的休假申请失败: %w", b.Prefix(), err)
	}
	if state.Scheduled, err = l.store.GetScheduledDayOffs(ctx, b.Year, b.Month); err != nil {
		return dayoff.State{}, nil, fmt.Errorf("读取 %s 的固定休息日失败: %w", b.Prefix(), err)
	}
	if state.Display, err = l.store.GetDisplayTexts(ctx, b.Year, b.Month); err != nil {
		return dayoff.State{}, nil, fmt.Errorf("读取 %s 的显示文本失败: %w", b.Prefix(), err)
	}

	return state, shifts, nil
}

// SaveShifts 按日期把班次分到各自的分区后写入，不属于任何分区的班次视为错误
func (l *Loader) SaveShifts(ctx context.Context, year, month int, shifts []*domain.Shift) error {
	if err := ValidateMonth(year, month); err != nil {
		return err
	}

	buckets := Buckets(year, month)
	parts := make([][]*domain.Shift, len(buckets))
	for _, shift := range shifts {
		i := bucketIndex(buckets, shift.Date)
		if i < 0 {
			return fmt.Errorf("班次 %s 的日期 %s 不属于 %s: %w", shift.ID, shift.Date, domain.MonthPrefix(year, month), ErrInvalidMonth)
		}
		parts[i] = append(parts[i], shift)
	}

	for i, b := range buckets {
		if len(parts[i]) == 0 {
			continue
		}
		if err := l.store.SaveShiftsForMonth(ctx, b.Year, b.Month, parts[i]); err != nil {
			return fmt.Errorf("保存 %s 的班次失败: %w", b.Prefix(), err)
		}
	}
	return nil
}

// SaveDayOffs 按键中的日期分区写入三张休假表。
// 跨年分区中不属于当前视图的日期保持原样。
func (l *Loader) SaveDayOffs(ctx context.Context, year, month int, state dayoff.State) error {
	if err := ValidateMonth(year, month); err != nil {
		return err
	}

	for _, b := range Buckets(year, month) {
		part := state.Filter(b.Covers)

		if b.CarryOver {
			existing, _, err := l.loadBucket(ctx, b)
			if err != nil {
				return err
			}
			outside := existing.Filter(func(date string) bool { return !b.Covers(date) })
			part = outside.Merge(part)
		}

		if err := l.store.SaveDayOffRequests(ctx, b.Year, b.Month, maps.Clone(part.Requests)); err != nil {
			return fmt.Errorf("保存 %s 的休假申请失败: %w", b.Prefix(), err)
		}
		if err := l.store.SaveScheduledDayOffs(ctx, b.Year, b.Month, maps.Clone(part.Scheduled)); err != nil {
			return fmt.Errorf("保存 %s 的固定休息日失败: %w", b.Prefix(), err)
		}
		if err := l.store.SaveDisplayTexts(ctx, b.Year, b.Month, maps.Clone(part.Display)); err != nil {
			return fmt.Errorf("保存 %s 的显示文本失败: %w", b.Prefix(), err)
		}
	}
	return nil
}

func bucketIndex(buckets []Bucket, date string) int {
	for i, b := range buckets {
		if b.Covers(date) {
			return i
		}
	}
	return -1
}
