package hours

import "github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"

// SplitCrossover 把跨过午夜的记录拆成两条：
//  1. 当天从 Open 到一天结束
//  2. 下一天从一天开始到原来的 Close
//
// 开门和关门时间相同表示连续营业 24 小时，同样拆分；都是 0 点时就是当天全天营业
// 其余记录原样返回。拆分后每条记录都满足 Open <= Close
func SplitCrossover(iv domain.OpeningInterval) []domain.OpeningInterval {
	if iv.Open == domain.StartOfDay && iv.Close == domain.StartOfDay {
		allDay := iv
		allDay.Close = domain.EndOfDay
		return []domain.OpeningInterval{allDay}
	}

	if iv.Close > iv.Open {
		return []domain.OpeningInterval{iv}
	}

	sameDay := domain.OpeningInterval{
		Restaurant: iv.Restaurant,
		Day:        iv.Day,
		Open:       iv.Open,
		Close:      domain.EndOfDay,
	}
	nextDay := domain.OpeningInterval{
		Restaurant: iv.Restaurant,
		Day:        iv.Day.Next(),
		Open:       domain.StartOfDay,
		Close:      iv.Close,
	}

	return []domain.OpeningInterval{sameDay, nextDay}
}
