package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/orders-next/internal/constants"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	return svc
}

func TestEnforceUserTypeMatrix(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	tests := []struct {
		userType string
		path     string
		method   string
		want     bool
	}{
		{constants.UserTypeBuyer, "/api/v1/basket", "PUT", true},
		{constants.UserTypeBuyer, "/api/v1/order/42", "get", true},
		{constants.UserTypeBuyer, "/api/v1/order/42", "DELETE", false},
		{constants.UserTypeBuyer, "/api/v1/partner/orders", "GET", false},
		{constants.UserTypeBuyer, "/api/v1/seller/update", "POST", false},
		{constants.UserTypeShop, "/api/v1/partner/orders", "GET", true},
		{constants.UserTypeShop, "/api/v1/seller/state", "POST", true},
		{constants.UserTypeShop, "/api/v1/user/contact", "DELETE", true},
		{constants.UserTypeShop, "/api/v1/seller/state", "DELETE", false},
		{"admin", "/api/v1/basket", "GET", false},
		{"", "/api/v1/basket", "GET", false},
	}
	for _, tt := range tests {
		allow, err := svc.EnforceUserType(tt.userType, tt.path, tt.method)
		if err != nil {
			t.Fatalf("enforce %s %s %s failed: %v", tt.userType, tt.method, tt.path, err)
		}
		if allow != tt.want {
			t.Fatalf("enforce %s %s %s want %v got %v", tt.userType, tt.method, tt.path, tt.want, allow)
		}
	}
}

func TestBootstrapBuiltinRolesIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	before, err := svc.GetRolePolicies(constants.RoleShop)
	if err != nil {
		t.Fatalf("get shop policies failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}
	after, err := svc.GetRolePolicies("shop")
	if err != nil {
		t.Fatalf("get shop policies failed: %v", err)
	}
	if len(before) != 4 || len(after) != len(before) {
		t.Fatalf("unexpected shop policies before=%v after=%v", before, after)
	}
	if after[0].Object != "/partner/orders" || after[0].Subject != constants.RoleShop {
		t.Fatalf("unexpected first policy: %+v", after[0])
	}
}

func TestBootstrapRestoresMissingBuiltinPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	removed, err := svc.enforcer.RemovePolicy(constants.RoleShop, "/seller/state", "POST")
	if err != nil || !removed {
		t.Fatalf("remove policy failed: removed=%v err=%v", removed, err)
	}
	if err := svc.verifyBuiltinRoles(BuiltinRoleSeeds()); err == nil {
		t.Fatalf("expected missing builtin policy error")
	}
	if allow, _ := svc.EnforceUserType(constants.UserTypeShop, "/api/v1/seller/state", "POST"); allow {
		t.Fatalf("removed policy must not allow access")
	}

	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if allow, err := svc.EnforceUserType(constants.UserTypeShop, "/api/v1/seller/state", "POST"); err != nil || !allow {
		t.Fatalf("bootstrap must restore policy, allow=%v err=%v", allow, err)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"basket":               "/basket",
		"/api/v1":              "/",
		"/api/v1/order/7":      "/order/7",
		" /api/v1/user/login ": "/user/login",
		"/api/v1x":             "/api/v1x",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("NormalizeObject(%q) want %q got %q", input, want, got)
		}
	}
}

func TestRoleForUserType(t *testing.T) {
	role, err := RoleForUserType(" Shop ")
	if err != nil || role != constants.RoleShop {
		t.Fatalf("unexpected role %q err %v", role, err)
	}
	if _, err := RoleForUserType(" "); err == nil {
		t.Fatalf("expected error for empty user type")
	}
}
