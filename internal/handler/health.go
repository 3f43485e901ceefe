package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
)

type SnapshotInfo struct {
	Generation  int64     `json:"generation"`
	Restaurants int       `json:"restaurants"`
	Intervals   int       `json:"intervals"`
	LoadedAt    time.Time `json:"loadedAt"`
}

func snapshotInfo(s *catalog.Snapshot) SnapshotInfo {
	return SnapshotInfo{
		Generation:  s.Generation,
		Restaurants: s.Restaurants,
		Intervals:   s.Table.Len(),
		LoadedAt:    s.LoadedAt,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.catalog.Current()
	if err != nil {
		if errors.Is(err, catalog.ErrNotLoaded) {
			h.errorResponse(w, r, http.StatusServiceUnavailable, "餐厅数据尚未加载")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "服务正常", snapshotInfo(snapshot))
}
