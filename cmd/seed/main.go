package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/config"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/seed"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var (
		companyName string
		n           int
		emailDomain string
		startDate   string
		days        int
	)

	flag.StringVar(&companyName, "company", "演示公司", "公司名称")
	flag.IntVar(&n, "n", 0, "要插入的员工数量，为 0 时使用配置中的值")
	flag.StringVar(&emailDomain, "email-domain", "example.com", "员工邮箱的域名")
	flag.StringVar(&startDate, "start", "", "人员需求的开始日期 (YYYY-MM-DD)，默认为今天")
	flag.IntVar(&days, "days", 7, "生成人员需求的天数")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if n == 0 {
		n = cfg.Seed.Employees
	}

	start := time.Now()
	if startDate != "" {
		start, err = shifttime.ParseDate(startDate)
		if err != nil {
			logger.Error("开始日期格式错误", slog.String("error", err.Error()))
			os.Exit(1)
		}
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

	res, err := seed.Run(context.Background(), repo, seed.Options{
		CompanyName: companyName,
		Employees:   n,
		EmailDomain: emailDomain,
		StartDate:   start,
		Days:        days,
	})
	if err != nil {
		logger.Error("无法写入演示数据", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("插入演示数据成功",
		slog.String("company_id", res.Company.ID.String()),
		slog.String("day_template_id", res.Template.ID.String()),
	)
}
