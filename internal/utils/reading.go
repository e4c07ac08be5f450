package utils

import (
	"sort"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
)

// Reading 返回姓名的拼音读法，非汉字部分原样保留
func Reading(name string) string {
	args := pinyin.NewArgs()
	args.Fallback = func(r rune, a pinyin.Args) []string {
		return []string{strings.ToLower(string(r))}
	}
	return strings.Join(pinyin.LazyPinyin(name, args), "")
}

// SortHelpersByReading 按姓名读法排序，读法相同时按 ID 排序
func SortHelpersByReading(helpers []*domain.Helper) {
	readings := make(map[int64]string, len(helpers))
	for _, h := range helpers {
		readings[h.ID] = Reading(h.FullName)
	}
	sort.SliceStable(helpers, func(i, j int) bool {
		ri, rj := readings[helpers[i].ID], readings[helpers[j].ID]
		if ri != rj {
			return ri < rj
		}
		return helpers[i].ID < helpers[j].ID
	})
}
