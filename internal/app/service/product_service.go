package service

import (
	"errors"

	"github.com/dferraz/mercado-backend/internal/app/model"
	"github.com/dferraz/mercado-backend/internal/app/repository"
	"github.com/dferraz/mercado-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductUpdate holds partial update fields. A nil field is left
// untouched, which is distinct from setting it to its zero value.
type ProductUpdate struct {
	Name        *string
	Price       *float64
	Description *string
}

type ProductService interface {
	CreateProduct(name string, price float64, description string) (*model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	UpdateProduct(id uint, update ProductUpdate) (*model.Product, error)
	DeleteProduct(id uint) error
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
}

func NewProductService(
	db *gorm.DB,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
) ProductService {
	return &productService{
		db:          db,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

func (s *productService) CreateProduct(name string, price float64, description string) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":  name,
		"price": price,
	})

	product := &model.Product{
		Name:        name,
		Price:       price,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.productRepo.WithTx(tx).Create(product)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to fetch products", err)
		return nil, err
	}

	logger.Debug("Products fetched successfully", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *productService) UpdateProduct(id uint, update ProductUpdate) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)

		existing, err := products.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found for update", map[string]interface{}{
					"product_id": id,
				})
				return ErrProductNotFound
			}
			return err
		}

		if update.Name != nil {
			existing.Name = *update.Name
		}
		if update.Price != nil {
			existing.Price = *update.Price
		}
		if update.Description != nil {
			existing.Description = *update.Description
		}

		if err := products.Update(existing); err != nil {
			return err
		}
		product = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

// DeleteProduct removes a product and every cart item referencing it,
// in one transaction. Cascading keeps carts free of orphaned lines.
func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	err := s.db.Transaction(func(tx *gorm.DB) error {
		products := s.productRepo.WithTx(tx)
		carts := s.cartRepo.WithTx(tx)

		if _, err := products.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found for deletion", map[string]interface{}{
					"product_id": id,
				})
				return ErrProductNotFound
			}
			return err
		}

		if err := carts.DeleteByProductID(id); err != nil {
			return err
		}
		return products.Delete(id)
	})
	if err != nil {
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
