package service

import (
	"testing"

	"github.com/orders-next/internal/constants"
	"github.com/orders-next/internal/models"

	"github.com/stretchr/testify/require"
)

func TestOrderPlaceOnlyOwnBasket(t *testing.T) {
	env := newTestEnv(t)
	owner, basket := env.fillBasket(t, "owner@example.com")
	intruder := env.createUser(t, "intruder@example.com", constants.UserTypeBuyer, "Buyer12345")
	intruderContact := env.createContact(t, intruder.ID)
	ownerContact := env.createContact(t, owner.ID)

	err := env.orders.Place(t.Context(), intruder.ID, basket.ID, intruderContact.ID, "ru")
	require.ErrorIs(t, err, ErrOrderNotFound)

	err = env.orders.Place(t.Context(), owner.ID, basket.ID, intruderContact.ID, "ru")
	require.ErrorIs(t, err, ErrContactNotFound)

	var stored models.Order
	require.NoError(t, env.db.First(&stored, basket.ID).Error)
	require.Equal(t, constants.OrderStateBasket, stored.State)
	require.Nil(t, stored.ContactID)

	require.NoError(t, env.orders.Place(t.Context(), owner.ID, basket.ID, ownerContact.ID, "ru"))
	require.NoError(t, env.db.First(&stored, basket.ID).Error)
	require.Equal(t, constants.OrderStateNew, stored.State)
	require.NotNil(t, stored.ContactID)
	require.Equal(t, ownerContact.ID, *stored.ContactID)

	err = env.orders.Place(t.Context(), owner.ID, basket.ID, ownerContact.ID, "ru")
	require.ErrorIs(t, err, ErrOrderNotFound)

	fresh, err := env.basket.Get(owner.ID)
	require.NoError(t, err)
	require.Zero(t, fresh.ID)
	require.Empty(t, fresh.Items)
}

func TestOrderPlaceEmptyBasket(t *testing.T) {
	env := newTestEnv(t)
	buyer, basket := env.fillBasket(t, "buyer@example.com")
	contact := env.createContact(t, buyer.ID)

	_, err := env.basket.DeleteItems(buyer.ID, formatUint(basket.Items[0].ID))
	require.NoError(t, err)

	err = env.orders.Place(t.Context(), buyer.ID, basket.ID, contact.ID, "ru")
	require.ErrorIs(t, err, ErrBasketEmpty)
}

func TestOrderListAndGetIncludeTotals(t *testing.T) {
	env := newTestEnv(t)
	buyer, basket := env.fillBasket(t, "buyer@example.com")
	contact := env.createContact(t, buyer.ID)
	expected := basket.Items[0].ProductInfo.Price.Mul(2).String()

	orders, err := env.orders.List(buyer.ID)
	require.NoError(t, err)
	require.NotNil(t, orders)
	require.Empty(t, orders)

	require.NoError(t, env.orders.Place(t.Context(), buyer.ID, basket.ID, contact.ID, "en"))

	orders, err = env.orders.List(buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, expected, orders[0].TotalSum.String())
	require.NotNil(t, orders[0].Contact)

	order, err := env.orders.Get(buyer.ID, basket.ID)
	require.NoError(t, err)
	require.Equal(t, expected, order.TotalSum.String())
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.Items[0].ProductInfo.Product)

	other := env.createUser(t, "other@example.com", constants.UserTypeBuyer, "Buyer12345")
	_, err = env.orders.Get(other.ID, basket.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestContactOfPlacedOrderCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t)
	buyer, basket := env.fillBasket(t, "buyer@example.com")
	used := env.createContact(t, buyer.ID)
	spare := env.createContact(t, buyer.ID)
	require.NoError(t, env.orders.Place(t.Context(), buyer.ID, basket.ID, used.ID, "ru"))

	_, err := env.contacts.Delete(buyer.ID, formatUint(used.ID))
	require.ErrorIs(t, err, ErrIntegrityConflict)

	order, err := env.orders.Get(buyer.ID, basket.ID)
	require.NoError(t, err)
	require.NotNil(t, order.Contact)
	require.Equal(t, used.ID, order.Contact.ID)

	deleted, err := env.contacts.Delete(buyer.ID, formatUint(spare.ID))
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)
}
