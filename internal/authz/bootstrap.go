package authz

import (
	"fmt"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/logger"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 买家与供应商的接口矩阵；供应商继承买家全部权限
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleBuyer,
			Policies: []Policy{
				{Object: "/user/details", Action: "GET"},
				{Object: "/user/details", Action: "POST"},
				{Object: "/user/contact", Action: "*"},
				{Object: "/basket", Action: "*"},
				{Object: "/order", Action: "GET"},
				{Object: "/order", Action: "POST"},
				{Object: "/order/:id", Action: "GET"},
			},
		},
		{
			Role:     constants.RoleShop,
			Inherits: []string{constants.RoleBuyer},
			Policies: []Policy{
				{Object: "/partner/orders", Action: "GET"},
				{Object: "/seller/update", Action: "POST"},
				{Object: "/seller/state", Action: "GET"},
				{Object: "/seller/state", Action: "POST"},
			},
		},
	}
}

// BootstrapBuiltinRoles 写入预置角色与策略，已存在的规则跳过，可重复执行
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return ErrUnavailable
	}
	seeds := BuiltinRoleSeeds()
	changed := false
	track := func(added bool, err error) error {
		if err != nil {
			return fmt.Errorf("bootstrap builtin roles failed: %w", err)
		}
		changed = changed || added
		return nil
	}

	for _, seed := range seeds {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}
		// 锚点让没有继承关系的角色也出现在分组策略里
		if err := track(s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)); err != nil {
			return err
		}
		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if err := track(s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)); err != nil {
				return err
			}
		}
		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy %s has no action", policy.Object)
			}
			if err := track(s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)); err != nil {
				return err
			}
		}
	}
	if changed {
		if err := s.enforcer.LoadPolicy(); err != nil {
			return fmt.Errorf("reload authz policy failed: %w", err)
		}
	}
	return s.verifyBuiltinRoles(seeds)
}

// verifyBuiltinRoles 确认每个预置角色的直连策略都已生效
func (s *Service) verifyBuiltinRoles(seeds []RoleSeed) error {
	for _, seed := range seeds {
		policies, err := s.GetRolePolicies(seed.Role)
		if err != nil {
			return err
		}
		have := make(map[string]struct{}, len(policies))
		for _, policy := range policies {
			have[policy.Object+" "+policy.Action] = struct{}{}
		}
		for _, want := range seed.Policies {
			if _, ok := have[NormalizeObject(want.Object)+" "+NormalizeAction(want.Action)]; !ok {
				return fmt.Errorf("builtin policy missing: %s %s %s", seed.Role, want.Action, want.Object)
			}
		}
		logger.Debugw("authz_role_policies_ready", "role", seed.Role, "policies", len(policies))
	}
	return nil
}
