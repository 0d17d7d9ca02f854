package service

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/orders-next/internal/config"
	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"
	"github.com/orders-next/internal/queue"
	"github.com/orders-next/internal/repository"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sampleCatalogYAML = `
shop: Связной
categories:
  - id: 224
    name: Смартфоны
  - id: 15
    name: Аксессуары
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Диагональ (дюйм)": 6.5
      "Разрешение (пикс)": 2688x1242
      "Встроенная память (Гб)": 512
      "Цвет": золотистый
  - id: 4216313
    category: 224
    model: apple/iphone/xr
    name: Смартфон Apple iPhone XR 256GB (красный)
    price: 65000
    price_rrc: 69990
    quantity: 9
    parameters:
      "Диагональ (дюйм)": 6.1
      "Цвет": красный
  - id: 4672670
    category: 15
    model: apple/airpods
    name: Наушники Apple AirPods
    price: 12990.50
    price_rrc: 13990
    quantity: 3
`

type testEnv struct {
	db          *gorm.DB
	cfg         *config.Config
	userRepo    repository.UserRepository
	tokenRepo   repository.TokenRepository
	contactRepo repository.ContactRepository
	shopRepo    repository.ShopRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository

	auth     *UserAuthService
	reset    *PasswordResetService
	contacts *ContactService
	catalog  *CatalogService
	basket   *BasketService
	orders   *OrderService
	partner  *PartnerService
	query    *CatalogQueryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "test-secret", ResetExpireMinutes: 30},
		Security: config.SecurityConfig{PasswordPolicy: config.PasswordPolicyConfig{
			MinLength:     8,
			RequireUpper:  true,
			RequireLower:  true,
			RequireNumber: true,
		}},
		Catalog: config.CatalogConfig{FetchTimeoutSeconds: 5, MaxBytes: 1 << 20},
	}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	require.NoError(t, err)

	env := &testEnv{
		db:          db,
		cfg:         cfg,
		userRepo:    repository.NewUserRepository(db),
		tokenRepo:   repository.NewTokenRepository(db),
		contactRepo: repository.NewContactRepository(db),
		shopRepo:    repository.NewShopRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewProductRepository(db),
	}
	categoryRepo := repository.NewCategoryRepository(db)
	notifier := NewNotificationService(NewEmailService(&config.EmailConfig{Enabled: false}), queueClient, env.orderRepo, env.userRepo, cfg.JWT.ResetExpireMinutes)

	env.auth = NewUserAuthService(cfg, env.userRepo, env.tokenRepo, notifier)
	env.reset = NewPasswordResetService(cfg, env.userRepo, env.tokenRepo, notifier)
	env.contacts = NewContactService(env.contactRepo)
	env.catalog = NewCatalogService(cfg.Catalog, env.shopRepo, categoryRepo, env.productRepo)
	env.basket = NewBasketService(env.orderRepo, env.productRepo)
	env.orders = NewOrderService(env.orderRepo, env.contactRepo, notifier)
	env.partner = NewPartnerService(env.shopRepo, env.orderRepo)
	env.query = NewCatalogQueryService(categoryRepo, env.shopRepo, env.productRepo)
	return env
}

func (e *testEnv) createUser(t *testing.T, email, userType, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{Email: email, PasswordHash: string(hashed), Type: userType, IsActive: true}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) importSample(t *testing.T, shopUser *models.User) *ImportResult {
	t.Helper()
	result, err := e.catalog.ImportDocument(t.Context(), shopUser.ID, strings.NewReader(sampleCatalogYAML), "")
	require.NoError(t, err)
	return result
}

func (e *testEnv) activeInfoIDs(t *testing.T, shopID uint) []uint {
	t.Helper()
	infos, _, err := e.productRepo.ListActiveInfos(repository.ProductInfoListFilter{ShopID: shopID})
	require.NoError(t, err)
	ids := make([]uint, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.ID)
	}
	return ids
}

func (e *testEnv) createContact(t *testing.T, userID uint) *models.Contact {
	t.Helper()
	city, street, phone := "Москва", "Тверская", "+79990000000"
	contact, err := e.contacts.Create(userID, ContactInput{City: &city, Street: &street, Phone: &phone})
	require.NoError(t, err)
	return contact
}

// fillBasket 以供应商目录为基础创建买家购物车，返回买家与购物车
func (e *testEnv) fillBasket(t *testing.T, email string) (*models.User, *models.Order) {
	t.Helper()
	var shopUser models.User
	err := e.db.Where("type = ?", constants.UserTypeShop).First(&shopUser).Error
	if err != nil {
		created := e.createUser(t, "supplier@example.com", constants.UserTypeShop, "Supplier123")
		e.importSample(t, created)
		shopUser = *created
	}
	shop, err := e.shopRepo.GetByUserID(shopUser.ID)
	require.NoError(t, err)
	ids := e.activeInfoIDs(t, shop.ID)
	require.NotEmpty(t, ids)

	buyer := e.createUser(t, email, constants.UserTypeBuyer, "Buyer12345")
	result, err := e.basket.AddItems(buyer.ID, fmt.Sprintf(`[{"product_info": %d, "quantity": 2}]`, ids[0]))
	require.NoError(t, err)
	require.Equal(t, 1, result.Created)
	basket, err := e.basket.Get(buyer.ID)
	require.NoError(t, err)
	return buyer, basket
}

func formatUint(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
