package hours

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

// 只认识固定的七个星期代码，不做任何别名或部分匹配
var dayItemPattern = func() *regexp.Regexp {
	codes := make([]string, 0, 7)
	for _, d := range domain.Weekdays() {
		codes = append(codes, string(d))
	}
	day := "(?:" + strings.Join(codes, "|") + ")"
	return regexp.MustCompile(fmt.Sprintf("(%s)-(%s)|(%s)", day, day, day))
}()

// ExpandDays 把 "Mon-Wed"、"Tues-Fri,Sun" 这样的字符串展开为逐日的星期代码
// 范围是闭区间；结束早于开始的范围（例如 "Sun-Mon"）不会绕回周首，而是展开为空
// 重叠的范围会产生重复的星期，这里不去重
func ExpandDays(token string) ([]domain.Weekday, error) {
	matches := dayItemPattern.FindAllStringSubmatch(token, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoDaysFound, token)
	}

	days := make([]domain.Weekday, 0, len(matches))
	for _, m := range matches {
		if m[3] != "" {
			days = append(days, domain.Weekday(m[3]))
			continue
		}

		start := domain.Weekday(m[1]).Index()
		end := domain.Weekday(m[2]).Index()
		all := domain.Weekdays()
		for i := start; i <= end; i++ {
			days = append(days, all[i])
		}
	}

	return days, nil
}
