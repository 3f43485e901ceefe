package domain

import "time"

// ReloadMessage 通知各个 api 实例重新加载餐厅数据
type ReloadMessage struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ReloadFailedMailData struct {
	Restaurant string    `json:"restaurant"`
	Hours      string    `json:"hours"`
	Error      string    `json:"error"`
	FailedAt   time.Time `json:"failedAt"`
}
