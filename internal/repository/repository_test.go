package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := models.Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type catalogFixture struct {
	shop  *models.Shop
	info  *models.ProductInfo
	info2 *models.ProductInfo
}

func seedCatalogFixture(t *testing.T, db *gorm.DB, state bool) catalogFixture {
	t.Helper()
	owner := &models.User{Email: fmt.Sprintf("shop-%t@example.com", state), Type: constants.UserTypeShop, IsActive: true}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create owner failed: %v", err)
	}
	shop := &models.Shop{UserID: owner.ID, Name: "Связной", State: true}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	if !state {
		if err := db.Model(shop).Update("state", false).Error; err != nil {
			t.Fatalf("close shop failed: %v", err)
		}
	}
	categories := NewCategoryRepository(db)
	category := &models.Category{ID: 224, Name: "Смартфоны"}
	if err := categories.Upsert(category); err != nil {
		t.Fatalf("upsert category failed: %v", err)
	}
	if err := NewShopRepository(db).AttachCategory(shop, category); err != nil {
		t.Fatalf("attach category failed: %v", err)
	}
	products := NewProductRepository(db)
	product, err := products.GetOrCreateProduct("Смартфон Apple iPhone XS Max", category.ID)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	other, err := products.GetOrCreateProduct("Смартфон Xiaomi Mi 9", category.ID)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	info := &models.ProductInfo{ProductID: product.ID, ShopID: shop.ID, ExternalID: 4216292, Model: "apple/iphone/xs-max", Price: models.NewMoneyFromInt(110000), PriceRRC: models.NewMoneyFromInt(116990), Quantity: 14}
	info2 := &models.ProductInfo{ProductID: other.ID, ShopID: shop.ID, ExternalID: 4672670, Model: "xiaomi/mi9", Price: models.NewMoneyFromInt(35000), Quantity: 3}
	for _, item := range []*models.ProductInfo{info, info2} {
		if err := products.CreateInfo(item); err != nil {
			t.Fatalf("create product info failed: %v", err)
		}
	}
	param, err := products.GetOrCreateParameter("Цвет")
	if err != nil {
		t.Fatalf("create parameter failed: %v", err)
	}
	if err := products.CreateProductParameter(&models.ProductParameter{ProductInfoID: info.ID, ParameterID: param.ID, Value: "золотистый"}); err != nil {
		t.Fatalf("create product parameter failed: %v", err)
	}
	return catalogFixture{shop: shop, info: info, info2: info2}
}

func createBuyer(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Type: constants.UserTypeBuyer, IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create buyer failed: %v", err)
	}
	return user
}

func TestGetOrCreateBasketIsUnique(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	buyer := createBuyer(t, db, "a@example.com")

	first, err := repo.GetOrCreateBasket(buyer.ID)
	if err != nil {
		t.Fatalf("create basket failed: %v", err)
	}
	second, err := repo.GetOrCreateBasket(buyer.ID)
	if err != nil {
		t.Fatalf("get basket failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same basket, got %d and %d", first.ID, second.ID)
	}

	dup := &models.Order{UserID: buyer.ID, State: constants.OrderStateBasket}
	if err := db.Create(dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("second basket row should violate unique index, got %v", err)
	}
}

func TestAddItemDuplicateIsRejected(t *testing.T) {
	db := openRepositoryTestDB(t)
	fixture := seedCatalogFixture(t, db, true)
	repo := NewOrderRepository(db)
	buyer := createBuyer(t, db, "a@example.com")
	basket, err := repo.GetOrCreateBasket(buyer.ID)
	if err != nil {
		t.Fatalf("create basket failed: %v", err)
	}

	if err := repo.AddItem(&models.OrderItem{OrderID: basket.ID, ProductInfoID: fixture.info.ID, Quantity: 2}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	err = repo.AddItem(&models.OrderItem{OrderID: basket.ID, ProductInfoID: fixture.info.ID, Quantity: 5})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated key, got %v", err)
	}
	count, err := repo.CountItems(basket.ID)
	if err != nil || count != 1 {
		t.Fatalf("expected exactly one item, got %d err=%v", count, err)
	}
}

func TestPlaceBasketScopedToOwner(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	alice := createBuyer(t, db, "alice@example.com")
	bob := createBuyer(t, db, "bob@example.com")
	aliceBasket, _ := repo.GetOrCreateBasket(alice.ID)
	bobBasket, _ := repo.GetOrCreateBasket(bob.ID)
	contact := &models.Contact{UserID: alice.ID, City: "Москва", Street: "Тверская", Phone: "+79990000000"}
	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("create contact failed: %v", err)
	}

	affected, err := repo.PlaceBasket(bobBasket.ID, alice.ID, contact.ID)
	if err != nil || affected != 0 {
		t.Fatalf("foreign basket must not be placed, affected=%d err=%v", affected, err)
	}
	affected, err = repo.PlaceBasket(aliceBasket.ID, alice.ID, contact.ID)
	if err != nil || affected != 1 {
		t.Fatalf("place basket failed, affected=%d err=%v", affected, err)
	}

	var states []string
	if err := db.Model(&models.Order{}).Order("id ASC").Pluck("state", &states).Error; err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || states[0] != constants.OrderStateNew || states[1] != constants.OrderStateBasket {
		t.Fatalf("unexpected states: %v", states)
	}
	email, err := repo.ResolveReceiverEmailByOrderID(aliceBasket.ID)
	if err != nil || email != "alice@example.com" {
		t.Fatalf("unexpected receiver email=%q err=%v", email, err)
	}
}

func TestListActiveInfosFilters(t *testing.T) {
	db := openRepositoryTestDB(t)
	open := seedCatalogFixture(t, db, true)
	seedClosedShop(t, db)
	repo := NewProductRepository(db)

	infos, total, err := repo.ListActiveInfos(ProductInfoListFilter{})
	if err != nil {
		t.Fatalf("list infos failed: %v", err)
	}
	if total != 2 || len(infos) != 2 {
		t.Fatalf("closed shop must be hidden, total=%d len=%d", total, len(infos))
	}

	infos, total, err = repo.ListActiveInfos(ProductInfoListFilter{Name: "iphone", ShopID: open.shop.ID, CategoryID: 224})
	if err != nil {
		t.Fatalf("filter infos failed: %v", err)
	}
	if total != 1 || infos[0].ID != open.info.ID {
		t.Fatalf("unexpected filtered result total=%d", total)
	}
	if infos[0].Product == nil || infos[0].Product.Category == nil || len(infos[0].Parameters) != 1 {
		t.Fatalf("details not preloaded: %+v", infos[0])
	}
	if infos[0].Parameters[0].Parameter == nil || infos[0].Parameters[0].Parameter.Name != "Цвет" {
		t.Fatalf("parameter not preloaded")
	}

	if _, err := repo.ArchiveInfos([]uint{open.info2.ID}); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if got, _ := repo.GetActiveInfo(open.info2.ID); got != nil {
		t.Fatalf("archived info must not be active")
	}
}

func seedClosedShop(t *testing.T, db *gorm.DB) {
	t.Helper()
	owner := &models.User{Email: "closed@example.com", Type: constants.UserTypeShop, IsActive: true}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create owner failed: %v", err)
	}
	shop := &models.Shop{UserID: owner.ID, Name: "Closed", State: true}
	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("create shop failed: %v", err)
	}
	if _, err := NewShopRepository(db).SetStateByUser(owner.ID, false); err != nil {
		t.Fatalf("close shop failed: %v", err)
	}
	if err := db.Create(&models.Category{ID: 5, Name: "Closed category"}).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	product, err := NewProductRepository(db).GetOrCreateProduct("iPhone hidden", 5)
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if err := db.Create(&models.ProductInfo{ProductID: product.ID, ShopID: shop.ID, ExternalID: 1, Price: models.NewMoneyFromInt(1)}).Error; err != nil {
		t.Fatalf("create info failed: %v", err)
	}
	if err := NewShopRepository(db).AttachCategory(shop, &models.Category{ID: 5}); err != nil {
		t.Fatalf("attach category failed: %v", err)
	}
}

func TestCategoriesAndShopsOnlyOpen(t *testing.T) {
	db := openRepositoryTestDB(t)
	seedCatalogFixture(t, db, true)
	seedClosedShop(t, db)

	categories, total, err := NewCategoryRepository(db).ListForOpenShops(CategoryListFilter{})
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if total != 1 || categories[0].ID != 224 {
		t.Fatalf("unexpected categories: %+v", categories)
	}
	shops, total, err := NewShopRepository(db).ListOpen(ShopListFilter{})
	if err != nil {
		t.Fatalf("list shops failed: %v", err)
	}
	if total != 1 || shops[0].Name != "Связной" {
		t.Fatalf("unexpected shops: %+v", shops)
	}
}

func TestDeleteInfosRemovesBasketReferencesOnly(t *testing.T) {
	db := openRepositoryTestDB(t)
	fixture := seedCatalogFixture(t, db, true)
	orders := NewOrderRepository(db)
	products := NewProductRepository(db)
	buyer := createBuyer(t, db, "a@example.com")
	basket, _ := orders.GetOrCreateBasket(buyer.ID)
	if err := orders.AddItem(&models.OrderItem{OrderID: basket.ID, ProductInfoID: fixture.info.ID, Quantity: 1}); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	referenced, err := products.FilterReferencedByPlacedOrders([]uint{fixture.info.ID, fixture.info2.ID})
	if err != nil || len(referenced) != 0 {
		t.Fatalf("basket items are not placed orders, got=%v err=%v", referenced, err)
	}
	removed, err := products.DeleteInfos([]uint{fixture.info.ID})
	if err != nil || removed != 1 {
		t.Fatalf("delete infos failed removed=%d err=%v", removed, err)
	}
	if count, _ := orders.CountItems(basket.ID); count != 0 {
		t.Fatalf("basket item should be removed, count=%d", count)
	}
	var params int64
	db.Model(&models.ProductParameter{}).Count(&params)
	if params != 0 {
		t.Fatalf("parameters should be removed, count=%d", params)
	}
}

func TestConfirmTokenExactMatch(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewTokenRepository(db)
	user := createBuyer(t, db, "a@example.com")

	token, err := repo.GetOrCreateConfirmToken(user.ID, "k1")
	if err != nil {
		t.Fatalf("create token failed: %v", err)
	}
	again, err := repo.GetOrCreateConfirmToken(user.ID, "k2")
	if err != nil || again.Key != "k1" || again.ID != token.ID {
		t.Fatalf("get-or-create should reuse token, got=%+v err=%v", again, err)
	}
	if got, _ := repo.GetConfirmToken("other@example.com", "k1"); got != nil {
		t.Fatalf("mismatched email must not match")
	}
	if got, _ := repo.GetConfirmToken("a@example.com", "k2"); got != nil {
		t.Fatalf("mismatched key must not match")
	}
	if got, _ := repo.GetConfirmToken("a@example.com", "k1"); got == nil {
		t.Fatalf("exact pair should match")
	}
}
