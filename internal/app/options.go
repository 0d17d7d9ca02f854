package app

import (
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 运行模式
const (
	ModeAll    = "all"    // API + 邮件 worker
	ModeAPI    = "api"    // 仅 API
	ModeWorker = "worker" // 仅邮件 worker
)

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	DB              *gorm.DB // 为空时使用 models.DB
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// ValidMode 判断运行模式是否合法
func ValidMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	}
	return false
}

func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultStopTimeout
	}
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	if opts.Signals == nil {
		opts.Signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return opts
}
