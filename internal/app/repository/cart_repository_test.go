package repository

import (
	"testing"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartTest(t *testing.T) (*gorm.DB, CartRepository, *model.User, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	product := &model.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, testDB.Create(product).Error)

	return testDB, NewCartRepository(testDB), user, product
}

func TestCartRepository_Create(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	cartItem := &model.CartItem{
		UserID:    user.ID,
		ProductID: product.ID,
	}

	require.NoError(t, repo.Create(cartItem))
	assert.NotZero(t, cartItem.ID)
}

func TestCartRepository_DuplicateRows(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	// Same (user, product) pair may appear in multiple rows
	first := &model.CartItem{UserID: user.ID, ProductID: product.ID}
	second := &model.CartItem{UserID: user.ID, ProductID: product.ID}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	assert.NotEqual(t, first.ID, second.ID)

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestCartRepository_FindByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)

	other := &model.User{Username: "bob", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: other.ID, ProductID: product.ID}))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, user.ID, items[0].UserID)

	// Product relation is preloaded for the cart view
	assert.Equal(t, "Widget", items[0].Product.Name)
	assert.Equal(t, 9.99, items[0].Product.Price)
}

func TestCartRepository_FindFirstByUserAndProduct(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	first := &model.CartItem{UserID: user.ID, ProductID: product.ID}
	second := &model.CartItem{UserID: user.ID, ProductID: product.ID}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))

	found, err := repo.FindFirstByUserAndProduct(user.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.FindFirstByUserAndProduct(user.ID, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCartRepository_Delete(t *testing.T) {
	_, repo, user, product := setupCartTest(t)

	item := &model.CartItem{UserID: user.ID, ProductID: product.ID}
	require.NoError(t, repo.Create(item))

	require.NoError(t, repo.Delete(item.ID))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartRepository_DeleteByUserID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)

	other := &model.User{Username: "bob", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(other).Error)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: other.ID, ProductID: product.ID}))

	require.NoError(t, repo.DeleteByUserID(user.ID))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Other carts are untouched
	items, err = repo.FindByUserID(other.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartRepository_DeleteByProductID(t *testing.T) {
	testDB, repo, user, product := setupCartTest(t)

	otherProduct := &model.Product{Name: "Gadget", Price: 19.99}
	require.NoError(t, testDB.Create(otherProduct).Error)

	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: product.ID}))
	require.NoError(t, repo.Create(&model.CartItem{UserID: user.ID, ProductID: otherProduct.ID}))

	require.NoError(t, repo.DeleteByProductID(product.ID))

	items, err := repo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, otherProduct.ID, items[0].ProductID)
}
