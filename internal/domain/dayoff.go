package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FullDay 表示全天休假的时间描述
const FullDay = "all"

// DateLayout 是所有日期字段使用的格式
const DateLayout = "2006-01-02"

// DayOffKey 生成 "{helperID}-{date}" 形式的键，三张休假表共用这个键空间
func DayOffKey(helperID int64, date string) string {
	return fmt.Sprintf("%d-%s", helperID, date)
}

// ParseDayOffKey 解析 DayOffKey 生成的键
func ParseDayOffKey(key string) (int64, string, bool) {
	idPart, date, found := strings.Cut(key, "-")
	if !found || len(date) != len(DateLayout) {
		return 0, "", false
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return id, date, true
}

// KeyDate 返回键中的日期部分，不合法时返回空串
func KeyDate(key string) string {
	_, date, ok := ParseDayOffKey(key)
	if !ok {
		return ""
	}
	return date
}
