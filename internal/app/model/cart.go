package model

import (
	"time"
)

// CartItem is one unit of a product in a user's cart. Quantity is
// represented by multiple rows for the same (user, product) pair.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ProductID uint      `gorm:"not null;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item enriched with its product's name and price
// for display.
type CartLine struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
}

func (ci *CartItem) Line() CartLine {
	return CartLine{
		ID:           ci.ID,
		UserID:       ci.UserID,
		ProductID:    ci.ProductID,
		ProductName:  ci.Product.Name,
		ProductPrice: ci.Product.Price,
	}
}
