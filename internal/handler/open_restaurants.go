package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
)

func openRestaurantsCacheKey(generation int64, datetime, restaurant string) string {
	return fmt.Sprintf("open_restaurants:%d:%s:%s", generation, datetime, restaurant)
}

func (h *Handler) GetOpenRestaurants(w http.ResponseWriter, r *http.Request) {
	req := struct {
		DateTime   string `validate:"required"`
		Restaurant string
	}{
		DateTime:   r.URL.Query().Get("datetime_str"),
		Restaurant: r.URL.Query().Get("restaurant"),
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 先校验时间格式，客户端的错误不应该看起来像服务器的错误
	if _, _, err := hours.ParseQueryTime(req.DateTime); err != nil {
		h.badRequest(w, r, err)
		return
	}

	snapshot, err := h.catalog.Current()
	if err != nil {
		if errors.Is(err, catalog.ErrNotLoaded) {
			h.errorResponse(w, r, http.StatusServiceUnavailable, "餐厅数据尚未加载，请稍后重试")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	key := openRestaurantsCacheKey(snapshot.Generation, req.DateTime, req.Restaurant)
	if names, ok := h.getCachedNames(r.Context(), key); ok {
		h.successResponse(w, r, "查询营业中的餐厅成功", names)
		return
	}

	names, err := snapshot.Table.FindOpen(req.DateTime, req.Restaurant)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	h.setCachedNames(r.Context(), key, names)
	h.successResponse(w, r, "查询营业中的餐厅成功", names)
}

// 缓存只是加速手段，redis 出错时记录日志后直接查询内存中的数据
func (h *Handler) getCachedNames(ctx context.Context, key string) ([]string, bool) {
	if h.cache == nil {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	val, err := h.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("读取查询缓存失败", "key", key, "error", err)
		}
		return nil, false
	}

	var names []string
	if err := json.Unmarshal(val, &names); err != nil {
		slog.Warn("查询缓存内容无效", "key", key, "error", err)
		return nil, false
	}

	return names, true
}

func (h *Handler) setCachedNames(ctx context.Context, key string, names []string) {
	if h.cache == nil {
		return
	}

	val, err := json.Marshal(names)
	if err != nil {
		slog.Warn("无法序列化查询结果", "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := h.cache.Set(ctx, key, val, time.Duration(h.config.Cache.Expiration)*time.Second).Err(); err != nil {
		slog.Warn("写入查询缓存失败", "key", key, "error", err)
	}
}
