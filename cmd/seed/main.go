package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/config"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/events"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	var file string
	var notify bool

	flag.StringVar(&file, "file", "./data/restaurants.csv", "要导入的 CSV 文件，表头为 \"Restaurant Name\",\"Hours\"")
	flag.BoolVar(&notify, "notify", true, "导入完成后是否通知 api 重新加载")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 读取并校验 CSV 文件，任何一条数据有问题都不导入
	restaurants, err := (&dataset.FileLoader{Path: file}).LoadRestaurants()
	if err != nil {
		logger.Error("无法读取 CSV 文件", slog.String("file", file), slog.String("error", err.Error()))
		os.Exit(1)
	}
	table, err := hours.BuildTable(restaurants)
	if err != nil {
		logger.Error("CSV 文件中存在无法解析的营业时间", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("CSV 文件校验通过", slog.Int("restaurants", len(restaurants)), slog.Int("intervals", table.Len()))

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		os.Exit(1)
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

	repo := repository.NewRepository(cfg, dbpool)

	if err := repo.ReplaceAllRestaurants(restaurants); err != nil {
		logger.Error("无法导入餐厅数据", slog.String("error", err.Error()))
		return
	}
	logger.Info("已导入餐厅数据", slog.Int("restaurants", len(restaurants)))

	if !notify {
		return
	}

	// 通知正在运行的 api 重新加载
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	if err := events.DeclareTopology(ch); err != nil {
		logger.Error("无法声明交换机和队列", "error", err)
		return
	}
	if err := events.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second).PublishReload("导入 " + file); err != nil {
		logger.Error("无法发送重新加载通知", "error", err)
		return
	}
	logger.Info("已通知 api 重新加载")
}
