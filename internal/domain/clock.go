package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime 表示一天中的某个时刻，单位为从 00:00:00 开始的秒数
type ClockTime int32

const (
	StartOfDay ClockTime = 0
	// EndOfDay 是一天中可以表示的最晚时刻，跨天拆分时作为闭区间的上界
	EndOfDay ClockTime = 24*60*60 - 1
)

func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

// ClockTimeOf 取出 t 的时分秒（忽略时区）
func ClockTimeOf(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute(), t.Second())
}

func (c ClockTime) Hour() int { return int(c) / 3600 }
func (c ClockTime) Minute() int { return int(c) % 3600 / 60 }
func (c ClockTime) Second() int { return int(c) % 60 }

// String 以 24 小时制 "15:04:05" 格式输出
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// Format12 以营业时间字符串中的 12 小时制格式输出，例如 "5 pm"、"12:30 am"
func (c ClockTime) Format12() string {
	meridiem := "am"
	if c.Hour() >= 12 {
		meridiem = "pm"
	}
	hour := c.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	if c.Minute() == 0 {
		return fmt.Sprintf("%d %s", hour, meridiem)
	}
	return fmt.Sprintf("%d:%02d %s", hour, c.Minute(), meridiem)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
