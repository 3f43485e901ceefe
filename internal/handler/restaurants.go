package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/domain"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
)

func (h *Handler) GetAllRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.repository.GetAllRestaurants()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有餐厅成功", restaurants)
}

func (h *Handler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := r.Context().Value(RestaurantCtx).(*domain.Restaurant)

	h.successResponse(w, r, "获取餐厅成功", restaurant)
}

func (h *Handler) GetRestaurantHours(w http.ResponseWriter, r *http.Request) {
	restaurant := r.Context().Value(RestaurantCtx).(*domain.Restaurant)

	snapshot, err := h.catalog.Current()
	if err != nil {
		if errors.Is(err, catalog.ErrNotLoaded) {
			h.errorResponse(w, r, http.StatusServiceUnavailable, "餐厅数据尚未加载，请稍后重试")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	// 刚修改过的餐厅可能还没有出现在当前的 snapshot 中
	h.successResponse(w, r, "获取餐厅营业时间成功", struct {
		Restaurant *domain.Restaurant       `json:"restaurant"`
		Intervals  []domain.OpeningInterval `json:"intervals"`
		Generation int64                    `json:"generation"`
	}{
		Restaurant: restaurant,
		Intervals:  snapshot.Table.ForRestaurant(restaurant.Name),
		Generation: snapshot.Generation,
	})
}

func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name" validate:"required"`
		Hours string `json:"hours" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 写入之前先确认营业时间可以被解析，避免一条坏数据导致整份数据无法加载
	if _, err := hours.NormalizeHours(req.Name, req.Hours); err != nil {
		h.badRequest(w, r, err)
		return
	}

	restaurant := &domain.Restaurant{
		Name:  req.Name,
		Hours: req.Hours,
	}

	if err := h.repository.CreateRestaurant(restaurant); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "restaurants_name_key":
				h.errorResponse(w, r, http.StatusConflict, "餐厅名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.requestReload("创建餐厅")
	h.successResponse(w, r, "创建餐厅成功", restaurant)
}

func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := r.Context().Value(RestaurantCtx).(*domain.Restaurant)

	var req struct {
		Name  *string `json:"name" validate:"omitnil,min=1"`
		Hours *string `json:"hours" validate:"omitnil,min=1"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		restaurant.Name = *req.Name
	}
	if req.Hours != nil {
		restaurant.Hours = *req.Hours
	}

	if _, err := hours.NormalizeHours(restaurant.Name, restaurant.Hours); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateRestaurant(restaurant); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "restaurants_name_key":
				h.errorResponse(w, r, http.StatusConflict, "餐厅名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.requestReload("更新餐厅")
	h.successResponse(w, r, "更新餐厅成功", restaurant)
}

func (h *Handler) DeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant := r.Context().Value(RestaurantCtx).(*domain.Restaurant)

	if err := h.repository.DeleteRestaurant(restaurant.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.requestReload("删除餐厅")
	h.successResponse(w, r, "删除餐厅成功", nil)
}

// ReloadDataset 在当前实例上同步重新加载，并通知其他实例
func (h *Handler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalog.Reload()
	if err != nil {
		var nerr *hours.NormalizationError
		if errors.As(err, &nerr) {
			// 数据本身有问题，不是请求的问题，但需要让管理员看到是哪一条数据
			h.errorResponse(w, r, http.StatusUnprocessableEntity, nerr.Error())
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishReload("管理员手动重新加载"); err != nil {
			slog.Error("无法发送重新加载通知", "error", err)
		}
	}

	h.successResponse(w, r, "重新加载餐厅数据成功", snapshotInfo(snapshot))
}

// requestReload 通知所有实例重新加载，消息队列不可用时只在本实例内重新加载
func (h *Handler) requestReload(reason string) {
	if h.publisher != nil {
		err := h.publisher.PublishReload(reason)
		if err == nil {
			return
		}
		slog.Error("无法发送重新加载通知，改为在本实例内重新加载", "error", err)
	}

	if _, err := h.catalog.Reload(); err != nil {
		slog.Error("重新加载餐厅数据失败", "reason", reason, "error", err)
	}
}
