package hours

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

var (
	hourOnlyPattern   = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-2])\s+(am|pm)$`)
	hourMinutePattern = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-2]):([0-5][0-9])\s+(am|pm)$`)
)

// ParseTimeToken 解析 "11 am" 或 "12:30 am" 这样的 12 小时制时间
// 含有 ":" 时按带分钟的格式解析，否则按只有小时的格式解析
func ParseTimeToken(token string) (domain.ClockTime, error) {
	token = strings.TrimSpace(token)

	var hourStr, minuteStr, meridiem string
	if strings.Contains(token, ":") {
		m := hourMinutePattern.FindStringSubmatch(token)
		if m == nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimeToken, token)
		}
		hourStr, minuteStr, meridiem = m[1], m[2], m[3]
	} else {
		m := hourOnlyPattern.FindStringSubmatch(token)
		if m == nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTimeToken, token)
		}
		hourStr, minuteStr, meridiem = m[1], "0", m[2]
	}

	// 正则已经限制了范围，这里不会出错
	hour, _ := strconv.Atoi(hourStr)
	minute, _ := strconv.Atoi(minuteStr)

	// 12 am 是 0 点，12 pm 是 12 点
	hour %= 12
	if strings.EqualFold(meridiem, "pm") {
		hour += 12
	}

	return domain.NewClockTime(hour, minute, 0), nil
}
