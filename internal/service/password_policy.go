package service

import (
	"unicode"

	"github.com/orders-next/internal/config"
)

// passwordPolicyError 携带 i18n 键与参数，errors.Is 匹配 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// PasswordPolicyViolations 返回密码不满足的全部规则
func PasswordPolicyViolations(policy config.PasswordPolicyConfig, password string) []error {
	violations := make([]error, 0, 2)
	if policy.MinLength > 0 && len([]rune(password)) < policy.MinLength {
		violations = append(violations, passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}})
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		violations = append(violations, passwordPolicyError{key: "error.password_require_upper"})
	}
	if policy.RequireLower && !hasLower {
		violations = append(violations, passwordPolicyError{key: "error.password_require_lower"})
	}
	if policy.RequireNumber && !hasNumber {
		violations = append(violations, passwordPolicyError{key: "error.password_require_number"})
	}
	if policy.RequireSpecial && !hasSpecial {
		violations = append(violations, passwordPolicyError{key: "error.password_require_special"})
	}
	return violations
}

// WeakPasswordError 聚合多条密码规则错误
type WeakPasswordError struct {
	Violations []error
}

func (e *WeakPasswordError) Error() string {
	if len(e.Violations) == 0 {
		return ErrWeakPassword.Error()
	}
	return e.Violations[0].Error()
}

// Is 匹配 ErrWeakPassword
func (e *WeakPasswordError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	violations := PasswordPolicyViolations(policy, password)
	if len(violations) == 0 {
		return nil
	}
	return &WeakPasswordError{Violations: violations}
}
