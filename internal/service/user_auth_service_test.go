package service

import (
	"errors"
	"testing"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"github.com/stretchr/testify/require"
)

func validRegisterInput(email string) RegisterInput {
	return RegisterInput{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     email,
		Password:  "Str0ngPassword",
		Company:   "ООО Ромашка",
		Position:  "Закупщик",
	}
}

func TestRegisterCreatesInactiveUserAndSingleToken(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(t.Context(), validRegisterInput(" Buyer@Example.com "), "ru")
	require.NoError(t, err)
	require.Equal(t, "buyer@example.com", user.Email)
	require.Equal(t, constants.UserTypeBuyer, user.Type)
	require.False(t, user.IsActive)

	var users, tokens int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, env.db.Model(&models.ConfirmEmailToken{}).Where("user_id = ?", user.ID).Count(&tokens).Error)
	require.EqualValues(t, 1, users)
	require.EqualValues(t, 1, tokens)

	_, err = env.auth.Register(t.Context(), validRegisterInput("buyer@example.com"), "ru")
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	weak := validRegisterInput("weak@example.com")
	weak.Password = "short"
	_, err := env.auth.Register(t.Context(), weak, "ru")
	require.ErrorIs(t, err, ErrWeakPassword)
	var weakErr *WeakPasswordError
	require.True(t, errors.As(err, &weakErr))
	require.GreaterOrEqual(t, len(weakErr.Violations), 2)

	badType := validRegisterInput("type@example.com")
	badType.Type = "admin"
	_, err = env.auth.Register(t.Context(), badType, "ru")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.auth.Register(t.Context(), validRegisterInput("not-an-email"), "ru")
	require.ErrorIs(t, err, ErrInvalidEmail)

	var users int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&users).Error)
	require.Zero(t, users)
}

func TestConfirmEmailRequiresExactPair(t *testing.T) {
	env := newTestEnv(t)
	first, err := env.auth.Register(t.Context(), validRegisterInput("first@example.com"), "ru")
	require.NoError(t, err)
	second, err := env.auth.Register(t.Context(), validRegisterInput("second@example.com"), "ru")
	require.NoError(t, err)

	var firstToken, secondToken models.ConfirmEmailToken
	require.NoError(t, env.db.Where("user_id = ?", first.ID).First(&firstToken).Error)
	require.NoError(t, env.db.Where("user_id = ?", second.ID).First(&secondToken).Error)

	require.ErrorIs(t, env.auth.ConfirmEmail("first@example.com", secondToken.Key), ErrConfirmTokenInvalid)
	require.ErrorIs(t, env.auth.ConfirmEmail("first@example.com", "wrong"), ErrConfirmTokenInvalid)
	require.ErrorIs(t, env.auth.ConfirmEmail("first@example.com", ""), ErrConfirmTokenInvalid)

	reloaded, err := env.userRepo.GetByID(first.ID)
	require.NoError(t, err)
	require.False(t, reloaded.IsActive)
	var tokens int64
	require.NoError(t, env.db.Model(&models.ConfirmEmailToken{}).Count(&tokens).Error)
	require.EqualValues(t, 2, tokens)

	require.NoError(t, env.auth.ConfirmEmail("FIRST@example.com", firstToken.Key))
	reloaded, err = env.userRepo.GetByID(first.ID)
	require.NoError(t, err)
	require.True(t, reloaded.IsActive)
	require.NoError(t, env.db.Model(&models.ConfirmEmailToken{}).Count(&tokens).Error)
	require.EqualValues(t, 1, tokens)
}

func TestLoginReusesTokenAndRejectsInactive(t *testing.T) {
	env := newTestEnv(t)
	input := validRegisterInput("login@example.com")
	user, err := env.auth.Register(t.Context(), input, "ru")
	require.NoError(t, err)

	_, _, err = env.auth.Login(t.Context(), input.Email, input.Password)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, env.userRepo.Activate(user.ID))
	_, _, err = env.auth.Login(t.Context(), input.Email, "Wrong-password1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, key, err := env.auth.Login(t.Context(), input.Email, input.Password)
	require.NoError(t, err)
	require.Len(t, key, constants.AuthTokenByteSize*2)
	_, again, err := env.auth.Login(t.Context(), input.Email, input.Password)
	require.NoError(t, err)
	require.Equal(t, key, again)

	state, err := env.auth.Authenticate(t.Context(), key)
	require.NoError(t, err)
	require.Equal(t, user.ID, state.UserID)
	require.Equal(t, constants.UserTypeBuyer, state.UserType)

	_, err = env.auth.Authenticate(t.Context(), "unknown")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateDetailsChangesPasswordAndRevokesTokens(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "details@example.com", constants.UserTypeBuyer, "OldPassw0rd")
	_, key, err := env.auth.Login(t.Context(), user.Email, "OldPassw0rd")
	require.NoError(t, err)

	company := "  Новая компания "
	updated, err := env.auth.UpdateDetails(t.Context(), user.ID, UpdateDetailsInput{Company: &company})
	require.NoError(t, err)
	require.Equal(t, "Новая компания", updated.Company)
	_, err = env.auth.Authenticate(t.Context(), key)
	require.NoError(t, err)

	weak := "weak"
	_, err = env.auth.UpdateDetails(t.Context(), user.ID, UpdateDetailsInput{Password: &weak})
	require.ErrorIs(t, err, ErrWeakPassword)

	password := "NewPassw0rd"
	_, err = env.auth.UpdateDetails(t.Context(), user.ID, UpdateDetailsInput{Password: &password})
	require.NoError(t, err)
	_, err = env.auth.Authenticate(t.Context(), key)
	require.ErrorIs(t, err, ErrInvalidCredentials)

	reloaded, err := env.userRepo.GetByID(user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, reloaded.TokenVersion)
	_, _, err = env.auth.Login(t.Context(), user.Email, password)
	require.NoError(t, err)

	other := env.createUser(t, "taken@example.com", constants.UserTypeBuyer, "OldPassw0rd")
	_, err = env.auth.UpdateDetails(t.Context(), user.ID, UpdateDetailsInput{Email: &other.Email})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestPasswordResetTokenIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "reset@example.com", constants.UserTypeBuyer, "OldPassw0rd")

	require.NoError(t, env.reset.Request(t.Context(), "missing@example.com", "ru"))
	require.NoError(t, env.reset.Request(t.Context(), user.Email, "ru"))

	token, err := env.reset.issue(user.ID, user.TokenVersion)
	require.NoError(t, err)

	require.ErrorIs(t, env.reset.Confirm(t.Context(), "garbage", "NewPassw0rd"), ErrResetTokenInvalid)
	require.ErrorIs(t, env.reset.Confirm(t.Context(), token, "weak"), ErrWeakPassword)
	require.NoError(t, env.reset.Confirm(t.Context(), token, "NewPassw0rd"))
	require.ErrorIs(t, env.reset.Confirm(t.Context(), token, "OtherPassw0rd"), ErrResetTokenInvalid)

	_, _, err = env.auth.Login(t.Context(), user.Email, "NewPassw0rd")
	require.NoError(t, err)
}

func TestPasswordResetRejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "sig@example.com", constants.UserTypeBuyer, "OldPassw0rd")

	foreign := NewPasswordResetService(env.cfg, env.userRepo, env.tokenRepo, nil)
	cfg := *env.cfg
	cfg.JWT.SecretKey = "another-secret"
	foreign.cfg = &cfg
	token, err := foreign.issue(user.ID, user.TokenVersion)
	require.NoError(t, err)

	require.ErrorIs(t, env.reset.Confirm(t.Context(), token, "NewPassw0rd"), ErrResetTokenInvalid)
}

func TestContactsAreScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com", constants.UserTypeBuyer, "Passw0rdOk")
	stranger := env.createUser(t, "stranger@example.com", constants.UserTypeBuyer, "Passw0rdOk")

	city := "Казань"
	_, err := env.contacts.Create(owner.ID, ContactInput{City: &city})
	require.ErrorIs(t, err, ErrInvalidInput)

	contact := env.createContact(t, owner.ID)
	other := env.createContact(t, stranger.ID)

	apartment := "12"
	updated, err := env.contacts.Update(owner.ID, formatUint(contact.ID), ContactInput{Apartment: &apartment})
	require.NoError(t, err)
	require.Equal(t, "12", updated.Apartment)
	require.Equal(t, "Москва", updated.City)

	_, err = env.contacts.Update(owner.ID, formatUint(other.ID), ContactInput{Apartment: &apartment})
	require.ErrorIs(t, err, ErrContactNotFound)
	_, err = env.contacts.Update(owner.ID, "1a", ContactInput{Apartment: &apartment})
	require.ErrorIs(t, err, ErrContactNotFound)

	_, err = env.contacts.Delete(owner.ID, "x,y")
	require.ErrorIs(t, err, ErrInvalidInput)
	deleted, err := env.contacts.Delete(owner.ID, formatUint(contact.ID)+","+formatUint(other.ID)+",abc")
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	list, err := env.contacts.List(stranger.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
