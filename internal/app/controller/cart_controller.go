package controller

import (
	"errors"
	"net/http"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/app/service"
	apperrors "github.com/dferraz/mercado-backend/internal/errors"
	"github.com/dferraz/mercado-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

// GetCart returns the current user's cart lines
// GET /api/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	cartItems, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, err, "get cart")
		return
	}

	lines := make([]model.CartLine, 0, len(cartItems))
	for i := range cartItems {
		lines = append(lines, cartItems[i].Line())
	}

	log.Debug("Cart fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})

	c.JSON(http.StatusOK, lines)
}

// AddToCart puts one unit of a product into the current user's cart
// POST /api/cart/add/:productId
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	cartItem, err := ctrl.cartService.AddToCart(userID, productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Add to cart failed: product not found", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			apperrors.BadRequest(c, apperrors.CartAddFailed, "failed to add item to cart")
			return
		}
		log.Error("Failed to add item to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, err, "add to cart")
		return
	}

	log.Info("Item added to cart", map[string]interface{}{
		"cart_item_id": cartItem.ID,
		"user_id":      userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "item added to cart successfully",
	})
}

// RemoveFromCart removes one unit of a product from the cart
// DELETE /api/cart/remove/:productId
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, productID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			log.Warn("Remove from cart failed: item not in cart", map[string]interface{}{
				"user_id":    userID,
				"product_id": productID,
			})
			apperrors.BadRequest(c, apperrors.CartItemNotFound, "failed to remove item from cart")
			return
		}
		log.Error("Failed to remove item from cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": productID,
		})
		apperrors.InternalError(c, err, "remove from cart")
		return
	}

	log.Info("Item removed from cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "item removed from cart successfully",
	})
}

// Checkout clears the current user's cart
// POST /api/cart/checkout
func (ctrl *CartController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "authentication required")
		return
	}

	if err := ctrl.cartService.Checkout(userID); err != nil {
		log.Error("Checkout failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, err, "checkout")
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "checkout successful, cart has been cleared",
	})
}
