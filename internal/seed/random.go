package seed

import (
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "庆",
	"建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func randomChineseName(rng *rand.Rand) string {
	var sb strings.Builder
	sb.WriteString(commonSurnames[rng.Intn(len(commonSurnames))])
	for range rng.Intn(2) + 1 {
		sb.WriteString(commonNameCharacters[rng.Intn(len(commonNameCharacters))])
	}
	return sb.String()
}

const digits = "0123456789"

// employeeCode 由姓名的拼音首字母加上序号组成，如 "王伟" 的第 3 个员工为 "ww003"
func employeeCode(fullName string, seq int) string {
	var sb strings.Builder
	for _, py := range pinyin.LazyConvert(fullName, nil) {
		if py != "" {
			sb.WriteByte(py[0])
		}
	}
	sb.WriteByte(digits[seq/100%10])
	sb.WriteByte(digits[seq/10%10])
	sb.WriteByte(digits[seq%10])
	return sb.String()
}

// emailLocalPart 把姓名转成完整拼音，如 "王伟" 转成 "wangwei"
func emailLocalPart(fullName string) string {
	return strings.Join(pinyin.LazyConvert(fullName, nil), "")
}
