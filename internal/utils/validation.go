package utils

import (
	"fmt"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

// ValidateShiftTimes 检查时间格式，并检查同一助理在同一天的班次是否重叠
func ValidateShiftTimes(shifts []*domain.Shift) error {
	type span struct {
		shift *domain.Shift
		r     timeutil.Range
	}
	groups := make(map[string][]span)

	for _, shift := range shifts {
		if _, err := time.Parse(domain.DateLayout, shift.Date); err != nil {
			return fmt.Errorf("班次 %s 的日期格式错误", shift.ID)
		}
		r, ok := timeutil.ParseRange(shift.TimeRange())
		if !ok {
			return fmt.Errorf("班次 %s 的时间格式错误", shift.ID)
		}
		if r.Duration() == 0 {
			return fmt.Errorf("班次 %s 的开始时间和结束时间相同", shift.ID)
		}
		if shift.ServiceType != "" && !IsServiceType(string(shift.ServiceType)) {
			return fmt.Errorf("班次 %s 的服务类型 %s 不存在", shift.ID, shift.ServiceType)
		}
		if shift.Deleted {
			continue
		}
		key := domain.DayOffKey(shift.HelperID, shift.Date)
		groups[key] = append(groups[key], span{shift: shift, r: r})
	}

	// 检查各个班次之间的时间是否冲突
	for _, spans := range groups {
		sort.Slice(spans, func(i, j int) bool { return spans[i].r.Start < spans[j].r.Start })
		for i := 1; i < len(spans); i++ {
			prev, cur := spans[i-1], spans[i]
			if timeutil.Overlap(prev.r.Start, prev.r.EndAbsolute(), cur.r.Start, cur.r.EndAbsolute()) > 0 {
				return fmt.Errorf("班次 %s 和班次 %s 之间的时间冲突", prev.shift.ID, cur.shift.ID)
			}
		}
	}

	return nil
}
