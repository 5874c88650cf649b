// Package shifttime 提供班次时间的解析、区间比较与日历计算
package shifttime

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

const (
	MinutesPerDay = 24 * 60
	DateLayout    = "2006-01-02"
)

// WeekStart 是周统计窗口的起始日，星期日记为 0
const WeekStart = time.Sunday

// ParseTime 将 HH:mm 解析为自零点起的分钟数，范围 [0, 1439]
func ParseTime(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, domain.NewInvalidTimeFormat(s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, domain.NewInvalidTimeFormat(s)
		}
	}

	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	if hour > 23 || minute > 59 {
		return 0, domain.NewInvalidTimeFormat(s)
	}

	return hour*60 + minute, nil
}

// FormatTime 是 ParseTime 的逆运算
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps 判断两个左闭右开区间是否相交；首尾相接或长度为零的区间不相交
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart != aEnd && bStart != bEnd && aStart < bEnd && aEnd > bStart
}

// DurationHours 不处理跨夜班次，end < start 时返回负数
func DurationHours(start, end int) float64 {
	return float64(end-start) / 60
}

// Interval 是已解析的班次区间
type Interval struct {
	Start int
	End   int
}

func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// Date 去掉时间部分，统一为 UTC 零点
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WeekWindow 返回 date 所在周的 [第一天, 最后一天]，以 WeekStart 作为一周的开始
func WeekWindow(date time.Time) (time.Time, time.Time) {
	d := Date(date)
	offset := (int(d.Weekday()) - int(WeekStart) + 7) % 7
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// EachDate 枚举闭区间 [start, end] 内的每一天；end 早于 start 时返回空
func EachDate(start, end time.Time) []time.Time {
	s, e := Date(start), Date(end)
	if e.Before(s) {
		return nil
	}

	dates := make([]time.Time, 0, int(e.Sub(s).Hours()/24)+1)
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// DaysBetween 返回闭区间 [start, end] 包含的天数
func DaysBetween(start, end time.Time) int {
	return int(Date(end).Sub(Date(start)).Hours()/24) + 1
}
