package domain

import "time"

type Restaurant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Hours     string    `json:"hours"` // 原始营业时间字符串，例如 "Mon-Wed 5 pm - 12:30 am / Thu-Fri 5 pm - 1:30 am"
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// OpeningInterval 是规范化之后的一条营业记录，保证 Open <= Close
type OpeningInterval struct {
	Restaurant string    `json:"restaurant"`
	Day        Weekday   `json:"day"`
	Open       ClockTime `json:"openTime"`
	Close      ClockTime `json:"closeTime"`
}

// Contains 判断 t 是否落在 [Open, Close] 内，两端都是闭区间
func (iv OpeningInterval) Contains(t ClockTime) bool {
	return iv.Open <= t && t <= iv.Close
}
