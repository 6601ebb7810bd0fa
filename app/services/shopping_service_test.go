package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddingTwiceIncrementsQuantity(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	user := register(t, "cart@example.com")
	product, err := NewProductService(disk).Create(ctx, admin, productInput("Socks", 5, 10), nil)
	require.NoError(t, err)
	cart := NewCartService()

	_, err = cart.Add(ctx, user, CartInput{ProductID: product.ID, Quantity: ptr(3)})
	require.NoError(t, err)
	item, err := cart.Add(ctx, user, CartInput{ProductID: product.ID, Quantity: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)

	items, err := cart.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Socks", items[0].Product.Title)
}

func TestCartService_UnknownProductIsNotFound(t *testing.T) {
	setup(t)
	user := register(t, "cart2@example.com")
	_, err := NewCartService().Add(context.Background(), user, CartInput{ProductID: 404, Quantity: ptr(1)})
	requireKind(t, err, KindNotFound)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	user := register(t, "cart3@example.com")
	catalog := NewProductService(disk)
	a, err := catalog.Create(ctx, admin, productInput("A", 1, 1), nil)
	require.NoError(t, err)
	b, err := catalog.Create(ctx, admin, productInput("B", 1, 1), nil)
	require.NoError(t, err)
	cart := NewCartService()

	for _, p := range []uint{a.ID, b.ID} {
		_, err := cart.Add(ctx, user, CartInput{ProductID: p, Quantity: ptr(1)})
		require.NoError(t, err)
	}

	require.NoError(t, cart.Remove(ctx, user, a.ID))
	items, err := cart.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ProductID)

	n, err := cart.Clear(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestWishlistService_AddIsIdempotent(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	user := register(t, "wish@example.com")
	product, err := NewProductService(disk).Create(ctx, admin, productInput("Watch", 120, 2), nil)
	require.NoError(t, err)
	wishlist := NewWishlistService()

	first, created, err := wishlist.Add(ctx, user, WishlistInput{ProductID: product.ID})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := wishlist.Add(ctx, user, WishlistInput{ProductID: product.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	items, err := wishlist.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
}

func TestWishlistService_RemoveIsOwnerScoped(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	owner := register(t, "wish-owner@example.com")
	other := register(t, "wish-other@example.com")
	product, err := NewProductService(disk).Create(ctx, admin, productInput("Ring", 80, 1), nil)
	require.NoError(t, err)
	wishlist := NewWishlistService()

	item, _, err := wishlist.Add(ctx, owner, WishlistInput{ProductID: product.ID})
	require.NoError(t, err)

	requireKind(t, wishlist.Remove(ctx, other, item.ID), KindNotFound)
	require.NoError(t, wishlist.Remove(ctx, owner, item.ID))
}

func TestCommentService_AddListRemoveClear(t *testing.T) {
	disk := setup(t)
	ctx := context.Background()
	user := register(t, "critic@example.com")
	product, err := NewProductService(disk).Create(ctx, admin, productInput("Book", 12, 5), nil)
	require.NoError(t, err)
	comments := NewCommentService()

	for _, rating := range []int{4, 2} {
		_, err := comments.Add(ctx, user, CommentInput{ProductID: product.ID, Comment: "ok", Rating: ptr(rating)})
		require.NoError(t, err)
	}

	list, err := comments.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].User)
	assert.Equal(t, "critic@example.com", list[0].User.Email)

	require.NoError(t, comments.Remove(ctx, user, product.ID))
	list, err = comments.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Rating)

	_, err = comments.ClearByProduct(ctx, user, product.ID)
	requireKind(t, err, KindForbidden)

	n, err := comments.ClearByProduct(ctx, admin, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = comments.Add(ctx, user, CommentInput{ProductID: 9999, Comment: "ghost", Rating: ptr(5)})
	requireKind(t, err, KindNotFound)
}

func TestAddressService_OwnerScoped(t *testing.T) {
	setup(t)
	ctx := context.Background()
	owner := register(t, "home@example.com")
	other := register(t, "away@example.com")
	addresses := NewAddressService()

	in := AddressInput{Address: "1 Main St", City: "Paris", ZipCode: "75001", Country: "France"}
	a, err := addresses.Add(ctx, owner, in)
	require.NoError(t, err)
	_, err = addresses.Add(ctx, owner, in)
	require.NoError(t, err)

	in.City = "Lyon"
	_, err = addresses.Update(ctx, other, a.ID, in)
	requireKind(t, err, KindNotFound)

	updated, err := addresses.Update(ctx, owner, a.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", updated.City)

	requireKind(t, addresses.Remove(ctx, other, a.ID), KindNotFound)
	require.NoError(t, addresses.Remove(ctx, owner, a.ID))

	list, err := addresses.List(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := addresses.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
