package hours

import (
	"fmt"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

// QueryTimeLayout 是查询时间的固定格式（24 小时制）
const QueryTimeLayout = "2006-01-02 15:04"

// Table 是规范化之后的营业记录集合，构建完成后只读，可以被并发查询
type Table struct {
	records      []domain.OpeningInterval
	byDay        map[domain.Weekday][]domain.OpeningInterval
	byRestaurant map[string][]domain.OpeningInterval
}

func NewTable(records []domain.OpeningInterval) *Table {
	t := &Table{
		records:      slices.Clone(records),
		byDay:        make(map[domain.Weekday][]domain.OpeningInterval),
		byRestaurant: make(map[string][]domain.OpeningInterval),
	}

	for _, iv := range t.records {
		t.byDay[iv.Day] = append(t.byDay[iv.Day], iv)
		t.byRestaurant[iv.Restaurant] = append(t.byRestaurant[iv.Restaurant], iv)
	}

	return t
}

// BuildTable 规范化整个数据集并构建查询表
func BuildTable(restaurants []*domain.Restaurant) (*Table, error) {
	records, err := NormalizeAll(restaurants)
	if err != nil {
		return nil, err
	}
	return NewTable(records), nil
}

func (t *Table) Len() int {
	return len(t.records)
}

// Records 返回所有记录的副本
func (t *Table) Records() []domain.OpeningInterval {
	return slices.Clone(t.records)
}

// ForRestaurant 返回某家餐厅的全部记录（副本）
func (t *Table) ForRestaurant(name string) []domain.OpeningInterval {
	return slices.Clone(t.byRestaurant[name])
}

// OpenAt 返回在 day 的 at 时刻营业的餐厅名称（去重并排序）
// restaurant 不为空时只考虑名称完全相同的餐厅
func (t *Table) OpenAt(day domain.Weekday, at domain.ClockTime, restaurant string) []string {
	seen := make(map[string]struct{})
	names := []string{}

	for _, iv := range t.byDay[day] {
		if restaurant != "" && iv.Restaurant != restaurant {
			continue
		}
		if !iv.Contains(at) {
			continue
		}
		if _, ok := seen[iv.Restaurant]; ok {
			continue
		}
		seen[iv.Restaurant] = struct{}{}
		names = append(names, iv.Restaurant)
	}

	slices.Sort(names)
	return names
}

// ParseQueryTime 解析 "YYYY-MM-DD HH:MM" 格式的查询时间
func ParseQueryTime(s string) (domain.Weekday, domain.ClockTime, error) {
	t, err := time.Parse(QueryTimeLayout, s)
	if err != nil {
		return "", 0, fmt.Errorf("%w，实际为 %q", ErrInvalidQueryTime, s)
	}
	return domain.WeekdayOf(t), domain.ClockTimeOf(t), nil
}

// FindOpen 查询在 datetime 时刻营业的餐厅
func (t *Table) FindOpen(datetime, restaurant string) ([]string, error) {
	day, at, err := ParseQueryTime(datetime)
	if err != nil {
		return nil, err
	}
	return t.OpenAt(day, at, restaurant), nil
}
