package main

import (
	"context"
	"flag"
	"os"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/provider"

	"golang.org/x/crypto/bcrypt"
)

type demoUser struct {
	Email     string
	FirstName string
	LastName  string
	Company   string
	Position  string
	Type      string
}

var demoUsers = []demoUser{
	{Email: "buyer@example.com", FirstName: "Иван", LastName: "Покупателев", Company: "ООО Ромашка", Position: "закупщик", Type: constants.UserTypeBuyer},
	{Email: "shop@example.com", FirstName: "Пётр", LastName: "Поставщиков", Company: "Связной", Position: "менеджер", Type: constants.UserTypeShop},
}

func main() {
	var catalogPath, password string
	flag.StringVar(&catalogPath, "catalog", "configs/shop1.yaml", "供应商目录 YAML 文件，为空时跳过导入")
	flag.StringVar(&password, "password", "Demo12345", "演示账户密码")
	flag.Parse()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	container, err := provider.NewContainer(cfg, models.DB)
	if err != nil {
		stdLog.Fatalf("Failed to init container: %v", err)
	}
	defer container.Close()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash password: %v", err)
	}

	// 创建演示账户（已激活）
	var shopUser *models.User
	for _, item := range demoUsers {
		user, err := container.UserRepo.GetByEmail(item.Email)
		if err != nil {
			stdLog.Fatalf("Failed to load user %s: %v", item.Email, err)
		}
		if user == nil {
			user = &models.User{
				Email:        item.Email,
				PasswordHash: string(hashed),
				FirstName:    item.FirstName,
				LastName:     item.LastName,
				Company:      item.Company,
				Position:     item.Position,
				Type:         item.Type,
				IsActive:     true,
			}
			if err := container.UserRepo.Create(user); err != nil {
				stdLog.Fatalf("Failed to create user %s: %v", item.Email, err)
			}
			stdLog.Printf("Created %s user: %s", item.Type, item.Email)
		} else {
			stdLog.Printf("User already exists: %s", item.Email)
		}
		if item.Type == constants.UserTypeShop {
			shopUser = user
		}
	}

	if catalogPath == "" || shopUser == nil {
		stdLog.Printf("Seed completed (catalog skipped)")
		return
	}

	// 导入目录
	file, err := os.Open(catalogPath)
	if err != nil {
		stdLog.Fatalf("Failed to open catalog %s: %v", catalogPath, err)
	}
	defer file.Close()
	result, err := container.CatalogService.ImportDocument(context.Background(), shopUser.ID, file, "")
	if err != nil {
		stdLog.Fatalf("Failed to import catalog: %v", err)
	}
	stdLog.Printf("Imported catalog: shop=%d categories=%d goods=%d archived=%d removed=%d",
		result.ShopID, result.Categories, result.Goods, result.Archived, result.Removed)
	stdLog.Printf("Seed completed")
}
