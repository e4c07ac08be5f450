package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/care-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/care-roster/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var year, month int
	var emailDomain string

	now := time.Now()
	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机助理, 2: 插入随机班次, 3: 插入随机休假)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量，为 0 时使用配置中的默认值")
	flag.IntVar(&year, "year", now.Year(), "班次和休假所属的年份")
	flag.IntVar(&month, "month", int(now.Month()), "班次和休假所属的月份")
	flag.StringVar(&emailDomain, "email-domain", "example.com", "随机助理邮箱的域名")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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

	repo := repository.NewRepository(cfg, dbpool)
	seeder := seed.NewSeeder(repo, repo, emailDomain)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n == 0 {
			n = cfg.Seed.Helpers
		}
		cnt, err := seeder.SeedHelpers(context.Background(), n)
		if err != nil {
			slog.Error("无法插入助理", slog.String("error", err.Error()))
		}
		slog.Info("插入助理成功", slog.Int("count", cnt))
	case 2:
		if n == 0 {
			n = cfg.Seed.Shifts
		}
		shifts, err := seeder.SeedShifts(context.Background(), year, month, n)
		if err != nil {
			slog.Error("无法插入班次", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入班次成功", slog.Int("count", len(shifts)), slog.Int("year", year), slog.Int("month", month))
	case 3:
		state, err := seeder.SeedDayOffs(context.Background(), year, month)
		if err != nil {
			slog.Error("无法插入休假", slog.String("error", err.Error()))
			return
		}
		slog.Info("插入休假成功", slog.Int("requests", len(state.Requests)), slog.Int("scheduled", len(state.Scheduled)))
	default:
		slog.Error("指定的操作非法")
	}
}
