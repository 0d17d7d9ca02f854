package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/orders-next/internal/app"
	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/i18n"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"

	"github.com/gin-gonic/gin"
)

// 默认配置或示例中出现过的密钥片段
var weakSecretMarkers = []string{"change-me", "change-in-production", "your-secret-key", "orders-next-dev"}

func main() {
	mode := flag.String("mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()
	if !app.ValidMode(*mode) {
		fmt.Fprintf(os.Stderr, "未知启动模式: %s\n", *mode)
		os.Exit(2)
	}

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	i18n.SetDefaultLocale(cfg.App.DefaultLocale)

	printSummary(cfg, *mode)

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			stdLog.Fatalf("jwt.secret 过弱或仍为默认值，release 模式拒绝启动")
		}
		logger.Warnw("server_weak_jwt_secret", "mode", cfg.Server.Mode)
	}

	pool := cfg.Database.Pool
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           pool.MaxOpenConns,
		MaxIdleConns:           pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	// 迁移同时创建购物车与商品报价的部分唯一索引
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config: cfg,
		DB:     models.DB,
		Logger: logger.S(),
		Mode:   *mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printSummary(cfg *config.Config, mode string) {
	queue := "sync"
	if cfg.Queue.Enabled {
		queue = "asynq"
	}
	fmt.Printf("orders-next  mode=%s  listen=%s:%s  db=%s  mail=%s\n",
		mode, cfg.Server.Host, cfg.Server.Port, cfg.Database.Driver, queue)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	for _, marker := range weakSecretMarkers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
