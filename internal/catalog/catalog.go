package catalog

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
)

var ErrNotLoaded = errors.New("餐厅数据尚未加载")

// Loader 提供原始的餐厅数据（数据库或 CSV 文件）
type Loader interface {
	LoadRestaurants() ([]*domain.Restaurant, error)
}

// Snapshot 是某一次加载得到的只读数据，加载后不再修改
type Snapshot struct {
	Table       *hours.Table
	Restaurants int
	Generation  int64
	LoadedAt    time.Time
}

// Catalog 持有当前生效的 Snapshot
// 重新加载时整体替换指针，读者不需要加锁
type Catalog struct {
	loader  Loader
	current atomic.Pointer[Snapshot]

	mu         sync.Mutex // 保证同一时间只有一次重新加载
	generation int64
}

func New(loader Loader) *Catalog {
	return &Catalog{loader: loader}
}

// Current 返回当前的 Snapshot，尚未加载时返回 ErrNotLoaded
func (c *Catalog) Current() (*Snapshot, error) {
	s := c.current.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// Reload 从 loader 读取数据并重新构建查询表
// 任何一条数据无法解析都会返回错误，此时旧的 Snapshot 继续生效
func (c *Catalog) Reload() (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	restaurants, err := c.loader.LoadRestaurants()
	if err != nil {
		return nil, err
	}

	table, err := hours.BuildTable(restaurants)
	if err != nil {
		return nil, err
	}

	c.generation++
	s := &Snapshot{
		Table:       table,
		Restaurants: len(restaurants),
		Generation:  c.generation,
		LoadedAt:    time.Now(),
	}
	c.current.Store(s)

	return s, nil
}
