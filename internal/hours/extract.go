package hours

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

// TimeRange 是一个时间段的开始和结束，结束可能早于开始（跨过午夜）
type TimeRange struct {
	Open  domain.ClockTime
	Close domain.ClockTime
}

// ExtractInterval 把 "Tues-Fri, Sun 11:30 am - 10 pm" 拆成星期部分和时间段
func ExtractInterval(chunk string) (string, TimeRange, error) {
	// 先把 ", " 合并为 ","，避免星期列表在第一个空格处被截断
	chunk = strings.ReplaceAll(strings.TrimSpace(chunk), ", ", ",")

	dayToken, timeExpr, _ := strings.Cut(chunk, " ")

	times := strings.Split(timeExpr, " - ")
	if len(times) != 2 {
		return "", TimeRange{}, fmt.Errorf("%w: %q", ErrMalformedTimeRange, timeExpr)
	}

	openTime, err := ParseTimeToken(times[0])
	if err != nil {
		return "", TimeRange{}, err
	}
	closeTime, err := ParseTimeToken(times[1])
	if err != nil {
		return "", TimeRange{}, err
	}

	return dayToken, TimeRange{Open: openTime, Close: closeTime}, nil
}
