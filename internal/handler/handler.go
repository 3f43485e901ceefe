package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/config"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/events"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/repository"
)

// queryCache 是缓存查询结果用到的 redis 命令，*redis.Client 满足这个接口
type queryCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	catalog    *catalog.Catalog
	repository *repository.Repository
	translator ut.Translator
	publisher  *events.Publisher // 为 nil 时直接在本实例内重新加载
	cache      queryCache        // 为 nil 时不缓存查询结果

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, cat *catalog.Catalog, pub *events.Publisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	h := &Handler{
		validate:   validate,
		config:     cfg,
		catalog:    cat,
		repository: repo,
		translator: trans,
		publisher:  pub,

		Mux: chi.NewRouter(),
	}
	// 直接赋值 nil 指针会得到一个非 nil 的接口
	if rdb != nil {
		h.cache = rdb
	}

	return h, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/healthz", h.Health)
	h.Mux.Get("/open-restaurants", h.GetOpenRestaurants)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 以下 API 只有管理员可以调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.requireAdmin)
		r.Post("/dataset/reload", h.ReloadDataset)
	})

	// 使用 CSV 作为数据源时没有数据库，不提供餐厅的增删改查
	if h.repository == nil {
		return
	}

	h.Mux.Route("/restaurants", func(r chi.Router) {
		r.Get("/", h.GetAllRestaurants)
		r.With(h.auth, h.requireAdmin).Post("/", h.CreateRestaurant)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.restaurant)
			r.Get("/", h.GetRestaurant)
			r.Get("/hours", h.GetRestaurantHours)
			r.With(h.auth, h.requireAdmin).Patch("/", h.UpdateRestaurant)
			r.With(h.auth, h.requireAdmin).Delete("/", h.DeleteRestaurant)
		})
	})
}
