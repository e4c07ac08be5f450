package utils

import (
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/timeutil"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateUsernameFromChineseName 取每个字拼音的前若干个字母，再追加几位数字
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, p := range pinyinArray {
		length := rand.Intn(len(p)) + 1
		username += p[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomHelper(emailDomainName string) *domain.Helper {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)

	return &domain.Helper{
		Username: username,
		FullName: fullName,
		Email:    username + "@" + emailDomainName,
	}
}

var clientNames = []string{
	"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村", "小林", "加藤",
}

var serviceTypes = []domain.ServiceType{
	domain.ServicePhysicalCare,
	domain.ServiceHousekeeping,
	domain.ServiceEscort,
	domain.ServiceOvernight,
}

// GenerateRandomShift 在 days 中随机选一天生成班次，夜间服务会跨越零点
func GenerateRandomShift(helperID int64, days []string) *domain.Shift {
	service := serviceTypes[rand.Intn(len(serviceTypes))]

	var start, length int
	if service == domain.ServiceOvernight {
		start = (20 + rand.Intn(3)) * 60
		length = (6 + rand.Intn(4)) * 60
	} else {
		start = (7+rand.Intn(12))*60 + rand.Intn(2)*30
		length = (1 + rand.Intn(3)) * 60
	}

	return &domain.Shift{
		Date:        days[rand.Intn(len(days))],
		StartTime:   timeutil.FormatMinutes(start),
		EndTime:     timeutil.FormatMinutes(start + length),
		HelperID:    helperID,
		ClientName:  clientNames[rand.Intn(len(clientNames))],
		ServiceType: service,
	}
}

// GenerateRandomDayOffSpec 随机生成全天或半天的休假时间描述
func GenerateRandomDayOffSpec() string {
	switch rand.Intn(3) {
	case 0:
		return domain.FullDay
	case 1:
		return "09:00-12:00"
	default:
		return "13:00-18:00"
	}
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset[T any](arr []T) []T {
	if len(arr) == 0 {
		return nil
	}
	arrCopy := append([]T{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

func ServiceTypes() []domain.ServiceType {
	return append([]domain.ServiceType{}, serviceTypes...)
}

func IsServiceType(s string) bool {
	for _, t := range serviceTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}
