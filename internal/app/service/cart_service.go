package service

import (
	"errors"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/app/repository"
	"github.com/dferraz/mercado-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartItemNotFound = errors.New("cart item not found")
)

type CartService interface {
	GetUserCart(userID uint) ([]model.CartItem, error)
	AddToCart(userID, productID uint) (*model.CartItem, error)
	RemoveFromCart(userID, productID uint) error
	Checkout(userID uint) error
}

type cartService struct {
	db          *gorm.DB
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		db:          db,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartItem, error) {
	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("User cart fetched", map[string]interface{}{
		"user_id": userID,
		"count":   len(cartItems),
	})
	return cartItems, nil
}

// AddToCart inserts a new cart row. Repeated adds of the same product
// create distinct rows, multiplicity is the row count.
func (s *cartService) AddToCart(userID, productID uint) (*model.CartItem, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	cartItem := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productRepo.WithTx(tx).FindByID(productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
					"user_id":    userID,
					"product_id": productID,
				})
				return ErrProductNotFound
			}
			return err
		}

		return s.cartRepo.WithTx(tx).Create(cartItem)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cart item added successfully", map[string]interface{}{
		"cart_item_id": cartItem.ID,
	})
	return cartItem, nil
}

// RemoveFromCart deletes at most one row matching (user, product). The
// cart is always filtered by the requesting principal, a client cannot
// remove another user's items.
func (s *cartService) RemoveFromCart(userID, productID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		carts := s.cartRepo.WithTx(tx)

		cartItem, err := carts.FindFirstByUserAndProduct(userID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Cart item not found for removal", map[string]interface{}{
					"user_id":    userID,
					"product_id": productID,
				})
				return ErrCartItemNotFound
			}
			return err
		}

		return carts.Delete(cartItem.ID)
	})
	if err != nil {
		return err
	}

	logger.Info("Cart item removed", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})
	return nil
}

// Checkout clears the user's cart. An empty cart is a no-op success.
func (s *cartService) Checkout(userID uint) error {
	logger.Info("Checking out user cart", map[string]interface{}{
		"user_id": userID,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.cartRepo.WithTx(tx).DeleteByUserID(userID)
	})
	if err != nil {
		logger.Error("Failed to checkout cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
