package service

import (
	"testing"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/app/repository"
	"github.com/dferraz/mercado-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (ProductService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productService := NewProductService(testDB, productRepo, cartRepo)

	return productService, testDB
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestProductService_CreateProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.CreateProduct("Widget", 9.99, "")
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Widget", product.Name)
	assert.Equal(t, 9.99, product.Price)
	// Description defaults to empty string, never null
	assert.Equal(t, "", product.Description)

	fetched, err := productService.GetProductByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", fetched.Name)
}

func TestProductService_GetProductByID_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	product, err := productService.GetProductByID(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, product)
}

func TestProductService_UpdateProduct_Partial(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct("Widget", 9.99, "original")
	require.NoError(t, err)

	// Only price present, name and description stay untouched
	updated, err := productService.UpdateProduct(created.ID, ProductUpdate{
		Price: floatPtr(5.00),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 5.00, updated.Price)
	assert.Equal(t, "original", updated.Description)

	// Only description present
	updated, err = productService.UpdateProduct(created.ID, ProductUpdate{
		Description: strPtr("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 5.00, updated.Price)
	assert.Equal(t, "x", updated.Description)

	// Description can be explicitly set to empty, distinct from absent
	updated, err = productService.UpdateProduct(created.ID, ProductUpdate{
		Description: strPtr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, "Widget", updated.Name)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	_, err := productService.UpdateProduct(9999, ProductUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	created, err := productService.CreateProduct("Widget", 9.99, "")
	require.NoError(t, err)

	require.NoError(t, productService.DeleteProduct(created.ID))

	_, err = productService.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, productService.DeleteProduct(created.ID), ErrProductNotFound)
}

func TestProductService_DeleteProduct_CascadesCartItems(t *testing.T) {
	productService, testDB := setupProductServiceTest(t)

	user := &model.User{Username: "alice", PasswordHash: "hash"}
	require.NoError(t, testDB.Create(user).Error)

	created, err := productService.CreateProduct("Widget", 9.99, "")
	require.NoError(t, err)
	kept, err := productService.CreateProduct("Gadget", 19.99, "")
	require.NoError(t, err)

	cartRepo := repository.NewCartRepository(testDB)
	require.NoError(t, cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: created.ID}))
	require.NoError(t, cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: created.ID}))
	require.NoError(t, cartRepo.Create(&model.CartItem{UserID: user.ID, ProductID: kept.ID}))

	require.NoError(t, productService.DeleteProduct(created.ID))

	// No orphaned cart lines survive a product deletion
	items, err := cartRepo.FindByUserID(user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ProductID)
}

func TestProductService_GetAllProducts(t *testing.T) {
	productService, _ := setupProductServiceTest(t)

	products, err := productService.GetAllProducts()
	require.NoError(t, err)
	assert.Empty(t, products)

	_, err = productService.CreateProduct("Widget", 9.99, "")
	require.NoError(t, err)
	_, err = productService.CreateProduct("Gadget", 19.99, "")
	require.NoError(t, err)

	products, err = productService.GetAllProducts()
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
