package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/app/repository"
	"github.com/dferraz/mercado-backend/internal/app/service"
	"github.com/dferraz/mercado-backend/internal/db"
	"github.com/dferraz/mercado-backend/internal/middleware"
	"github.com/dferraz/mercado-backend/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartTestEnv struct {
	router      *gin.Engine
	cartService service.CartService
	token       string
	user        *model.User
	product     *model.Product
}

func setupCartControllerTest(t *testing.T) *cartTestEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	sessions := session.NewMemoryStore()
	userRepo := repository.NewUserRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)

	authService := service.NewAuthService(testDB, userRepo, sessions, "test-secret", time.Hour)
	cartService := service.NewCartService(testDB, cartRepo, productRepo)

	ctrl := NewCartController(cartService)
	authMiddleware := middleware.NewAuthMiddleware("test-secret", sessions)

	router := gin.New()
	cart := router.Group("/api/cart", authMiddleware.RequireSession())
	{
		cart.GET("", ctrl.GetCart)
		cart.POST("/add/:productId", ctrl.AddToCart)
		cart.DELETE("/remove/:productId", ctrl.RemoveFromCart)
		cart.POST("/checkout", ctrl.Checkout)
	}

	user, err := authService.Register("alice", "password123")
	require.NoError(t, err)
	_, token, err := authService.Login("alice", "password123")
	require.NoError(t, err)

	product := &model.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, testDB.Create(product).Error)

	return &cartTestEnv{
		router:      router,
		cartService: cartService,
		token:       token,
		user:        user,
		product:     product,
	}
}

func (env *cartTestEnv) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestCartController_RequiresAuthentication(t *testing.T) {
	env := setupCartControllerTest(t)

	tests := []struct {
		name   string
		method string
		path   string
	}{
		{name: "Get cart", method: "GET", path: "/api/cart"},
		{name: "Add to cart", method: "POST", path: "/api/cart/add/1"},
		{name: "Remove from cart", method: "DELETE", path: "/api/cart/remove/1"},
		{name: "Checkout", method: "POST", path: "/api/cart/checkout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}

	// The rejected add left no rows behind
	cart, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartController_AddToCart_Success(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("POST", "/api/cart/add/1", env.token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "item added to cart successfully")

	cart, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestCartController_AddToCart_UnknownProduct(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("POST", "/api/cart/add/9999", env.token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "failed to add item to cart")
}

func TestCartController_AddToCart_InvalidProductID(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("POST", "/api/cart/add/abc", env.token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_GetCart_Lines(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("POST", "/api/cart/add/1", env.token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do("POST", "/api/cart/add/1", env.token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do("GET", "/api/cart", env.token)
	assert.Equal(t, http.StatusOK, w.Code)

	var lines []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &lines)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	for _, line := range lines {
		assert.Equal(t, float64(env.user.ID), line["user_id"])
		assert.Equal(t, float64(env.product.ID), line["product_id"])
		assert.Equal(t, "Widget", line["product_name"])
		assert.Equal(t, 9.99, line["product_price"])
	}
}

func TestCartController_GetCart_Empty(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("GET", "/api/cart", env.token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCartController_RemoveFromCart_RemovesOne(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("POST", "/api/cart/add/1", env.token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do("POST", "/api/cart/add/1", env.token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do("DELETE", "/api/cart/remove/1", env.token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "item removed from cart successfully")

	cart, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestCartController_RemoveFromCart_NotInCart(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("DELETE", "/api/cart/remove/1", env.token)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "failed to remove item from cart")
}

func TestCartController_Checkout_ClearsCart(t *testing.T) {
	env := setupCartControllerTest(t)

	for i := 0; i < 3; i++ {
		w := env.do("POST", "/api/cart/add/1", env.token)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.do("POST", "/api/cart/checkout", env.token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "checkout successful")

	cart, err := env.cartService.GetUserCart(env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestCartController_Checkout_EmptyCart(t *testing.T) {
	env := setupCartControllerTest(t)

	w := env.do("POST", "/api/cart/checkout", env.token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "checkout successful")
}
