package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"./db/orders.db", "./db/orders.db?_pragma=foreign_keys(1)"},
		{"file:test?mode=memory&cache=shared", "file:test?mode=memory&cache=shared&_pragma=foreign_keys(1)"},
		{"./db/orders.db?_pragma=foreign_keys(0)", "./db/orders.db?_pragma=foreign_keys(0)"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Fatalf("sqliteDSN(%q) want %q got %q", tt.in, tt.want, got)
		}
	}
}

func TestOpenSQLiteEnforcesForeignKeys(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := Open("sqlite", dsn, logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var enabled int
	if err := db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error; err != nil {
		t.Fatalf("read pragma failed: %v", err)
	}
	if enabled != 1 {
		t.Fatalf("foreign keys must be enabled, got %d", enabled)
	}

	user := &User{Email: "buyer@example.com", Type: "buyer", IsActive: true}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	missing := uint(999)
	order := &Order{UserID: user.ID, State: "new", ContactID: &missing}
	if err := db.Create(order).Error; !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Fatalf("dangling contact must be rejected, got %v", err)
	}

	contact := &Contact{UserID: user.ID, City: "Москва", Street: "Тверская", Phone: "+79990000000"}
	if err := db.Create(contact).Error; err != nil {
		t.Fatalf("create contact failed: %v", err)
	}
	placed := &Order{UserID: user.ID, State: "new", ContactID: &contact.ID}
	if err := db.Create(placed).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := db.Delete(&Contact{}, contact.ID).Error; !errors.Is(err, gorm.ErrForeignKeyViolated) {
		t.Fatalf("contact of an order must not be deleted, got %v", err)
	}
}
