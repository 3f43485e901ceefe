package hours

import (
	"strings"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

// ChunkSeparator 分隔营业时间字符串中的各个片段
const ChunkSeparator = "/"

// NormalizeHours 把一家餐厅的营业时间字符串转换为规范化的营业记录
// 任何一个片段出错都会使整条字符串失败，返回的错误为 *NormalizationError
func NormalizeHours(restaurant, raw string) ([]domain.OpeningInterval, error) {
	var intervals []domain.OpeningInterval

	for _, chunk := range strings.Split(raw, ChunkSeparator) {
		dayToken, tr, err := ExtractInterval(chunk)
		if err != nil {
			return nil, &NormalizationError{Restaurant: restaurant, Hours: raw, Err: err}
		}

		days, err := ExpandDays(dayToken)
		if err != nil {
			return nil, &NormalizationError{Restaurant: restaurant, Hours: raw, Err: err}
		}

		for _, day := range days {
			iv := domain.OpeningInterval{
				Restaurant: restaurant,
				Day:        day,
				Open:       tr.Open,
				Close:      tr.Close,
			}
			intervals = append(intervals, SplitCrossover(iv)...)
		}
	}

	return intervals, nil
}

// NormalizeAll 对整个数据集做规范化，遇到第一条错误数据就停止
// 宁可拒绝服务也不能返回错误的营业状态
func NormalizeAll(restaurants []*domain.Restaurant) ([]domain.OpeningInterval, error) {
	var all []domain.OpeningInterval

	for _, r := range restaurants {
		intervals, err := NormalizeHours(r.Name, r.Hours)
		if err != nil {
			return nil, err
		}
		all = append(all, intervals...)
	}

	return all, nil
}
