package hours

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedTimeToken = errors.New("时间格式错误")
	ErrNoDaysFound        = errors.New("没有找到任何星期")
	ErrMalformedTimeRange = errors.New("时间段格式错误")
	ErrInvalidQueryTime   = errors.New("查询时间格式错误，应为 YYYY-MM-DD HH:MM")
)

// NormalizationError 表示某家餐厅的营业时间无法规范化
// 保留餐厅名称和原始字符串，方便定位出错的数据
type NormalizationError struct {
	Restaurant string
	Hours      string
	Err        error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("餐厅 %q 的营业时间 %q 无法解析: %v", e.Restaurant, e.Hours, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}
