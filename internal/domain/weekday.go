package domain

import "time"

// Weekday 是营业时间字符串中使用的星期代码
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tues"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// 一周内的固定顺序，范围展开和跨天都依赖这个顺序
var weekdayOrder = [...]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Weekdays 返回按顺序排列的七个星期代码（返回的是副本）
func Weekdays() []Weekday {
	days := weekdayOrder
	return days[:]
}

// Index 返回星期代码在一周中的位置，不认识的代码返回 -1
func (d Weekday) Index() int {
	for i, day := range weekdayOrder {
		if day == d {
			return i
		}
	}
	return -1
}

func (d Weekday) Valid() bool {
	return d.Index() >= 0
}

// Next 返回下一天，周日的下一天是周一，不认识的代码返回空字符串
func (d Weekday) Next() Weekday {
	if !d.Valid() {
		return ""
	}
	return weekdayOrder[(d.Index()+1)%len(weekdayOrder)]
}

// WeekdayOf 把日历上的星期映射为星期代码
// 英文缩写取前三个字母，唯独周二在数据中写作 "Tues"
func WeekdayOf(t time.Time) Weekday {
	abbr := t.Weekday().String()[:3]
	if abbr == "Tue" {
		return Tuesday
	}
	return Weekday(abbr)
}
