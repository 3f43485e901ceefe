package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/dataset"
	"github.com/sysu-ecnc-dev/open-restaurants/backend/internal/hours"
)

// 不依赖数据库和消息队列，直接查询 CSV 文件
func main() {
	var file string
	var at string
	var restaurant string

	flag.StringVar(&file, "file", "./data/restaurants.csv", "CSV 文件，表头为 \"Restaurant Name\",\"Hours\"")
	flag.StringVar(&at, "at", "", "查询时间，格式为 YYYY-MM-DD HH:MM")
	flag.StringVar(&restaurant, "restaurant", "", "只查询指定名称的餐厅")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	restaurants, err := (&dataset.FileLoader{Path: file}).LoadRestaurants()
	if err != nil {
		logger.Error("无法读取 CSV 文件", slog.String("file", file), slog.String("error", err.Error()))
		os.Exit(1)
	}

	table, err := hours.BuildTable(restaurants)
	if err != nil {
		logger.Error("无法解析营业时间", slog.String("error", err.Error()))
		os.Exit(1)
	}

	names, err := table.FindOpen(at, restaurant)
	if err != nil {
		logger.Error("查询失败", slog.String("error", err.Error()))
		os.Exit(2)
	}

	for _, name := range names {
		fmt.Println(name)
	}
}
