package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
)

const (
	NameColumn  = "Restaurant Name"
	HoursColumn = "Hours"
)

var ErrMissingColumn = errors.New("CSV 文件缺少必要的列")

// ReadCSV 读取带表头的餐厅营业时间表，表头中必须包含 "Restaurant Name" 和 "Hours"
func ReadCSV(r io.Reader) ([]*domain.Restaurant, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: 文件为空", ErrMissingColumn)
		}
		return nil, err
	}

	nameIdx, hoursIdx := -1, -1
	for i, col := range header {
		// Excel 导出的文件可能带有 UTF-8 BOM
		switch strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) {
		case NameColumn:
			nameIdx = i
		case HoursColumn:
			hoursIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, NameColumn)
	}
	if hoursIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, HoursColumn)
	}

	var restaurants []*domain.Restaurant
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		restaurants = append(restaurants, &domain.Restaurant{
			Name:  record[nameIdx],
			Hours: record[hoursIdx],
		})
	}

	return restaurants, nil
}

// FileLoader 从 CSV 文件加载餐厅数据，每次加载都会重新读取文件
type FileLoader struct {
	Path string
}

func (l *FileLoader) LoadRestaurants() ([]*domain.Restaurant, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}
