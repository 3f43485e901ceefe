package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/catalog"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/config"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/events"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/handler"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	var repo *repository.Repository
	if cfg.Database.DSN != "" {
		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			logger.Error("无法创建数据库连接池", "error", err)
			return
		}
		defer dbpool.Close()

		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
		if err := dbpool.PingContext(ctx); err != nil {
			logger.Error("无法连接到数据库", "error", err)
			return
		}

		repo = repository.NewRepository(cfg, dbpool)
	}

	/**********************************************
	 * 加载餐厅数据
	 **********************************************/
	var loader catalog.Loader
	switch cfg.Dataset.Source {
	case config.DatasetSourceCSV:
		loader = &dataset.FileLoader{Path: cfg.Dataset.CSVPath}
	default:
		// LoadConfig 已经保证了这种情况下 DSN 不为空
		loader = repo
	}
	cat := catalog.New(loader)

	// 数据有问题时直接退出，不能对外提供错误的营业状态
	snapshot, err := cat.Reload()
	if err != nil {
		logger.Error("无法加载餐厅数据", "source", cfg.Dataset.Source, "error", err)
		return
	}
	logger.Info("已加载餐厅数据", "source", cfg.Dataset.Source, "restaurants", snapshot.Restaurants, "intervals", snapshot.Table.Len())

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 发布和消费使用不同的通道
	pubCh, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer pubCh.Close()

	if err := events.DeclareTopology(pubCh); err != nil {
		logger.Error("无法声明交换机和队列", "error", err)
		return
	}
	publisher := events.NewPublisher(pubCh, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	subCh, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer subCh.Close()

	queueName, err := events.BindReloadQueue(subCh)
	if err != nil {
		logger.Error("无法声明重新加载队列", "error", err)
		return
	}
	deliveries, err := subCh.Consume(
		queueName, // 队列
		"",        // 消费者标识，由 RabbitMQ 自动分配
		false,     // 手动确认
		true,      // 独占队列
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("无法消费重新加载通知", "error", err)
		return
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}
	worker := events.NewReloadWorker(cat, publisher, cfg.Email.AlertTo, logger)

	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(workerCtx, deliveries)
	}()

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, cat, publisher, rdb)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}

	stopWorker()
	wg.Wait()
	logger.Info("服务器已成功关闭")
}
