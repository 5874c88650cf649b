package main

import (
	"embed"
	"errors"
	"flag"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/config"

	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		dsn     = flag.String("dsn", "", "数据库连接字符串，默认使用 DATABASE_DSN")
		up      = flag.Bool("up", false, "执行所有 up 迁移")
		down    = flag.Bool("down", false, "执行所有 down 迁移")
		steps   = flag.Int("steps", 0, "迁移步数（正数为 up，负数为 down）")
		version = flag.Bool("version", false, "输出当前迁移版本")
		force   = flag.Int("force", -1, "强制设置版本（谨慎使用）")
	)
	flag.Parse()

	forceSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "force" {
			forceSet = true
		}
	})

	if *dsn == "" {
		cfg, err := config.LoadConfig()
		if err != nil {
			logger.Error("无法加载配置文件", "error", err)
			os.Exit(1)
		}
		*dsn = cfg.Database.DSN
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		logger.Error("无法读取迁移文件", "error", err)
		os.Exit(1)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, pgxURL(*dsn))
	if err != nil {
		logger.Error("无法创建 migrator", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			logger.Error("无法获取当前版本", "error", err)
			return
		}
		logger.Info("当前迁移版本", "version", v, "dirty", dirty)
	case forceSet:
		if err := m.Force(*force); err != nil {
			logger.Error("无法强制设置版本", "error", err)
			return
		}
		logger.Info("已强制设置版本", "version", *force)
	case *up:
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("执行 up 迁移失败", "error", err)
			return
		}
		logger.Info("迁移已完成")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("执行 down 迁移失败", "error", err)
			return
		}
		logger.Info("迁移已回滚")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Error("执行迁移失败", "error", err)
			return
		}
		logger.Info("迁移已完成", "steps", *steps)
	default:
		flag.Usage()
	}
}
