package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"innoshop/internal/database"
	"innoshop/internal/product/model"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the persistence contract the product service depends
// on. GetByID applies the default visibility rule (no soft-deleted rows, no
// inactive owners), so hidden products are indistinguishable from absent
// ones on every path that resolves a single product.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uint) (*model.Product, error)
	GetAll(ctx context.Context, filter *model.Filter) ([]*model.Product, error)
	GetPaged(ctx context.Context, pageNumber, pageSize int, filter *model.Filter) ([]*model.Product, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	SetDeleted(ctx context.Context, id uint, deleted bool) error
	UpdateOwnerActiveStatus(ctx context.Context, ownerID uint, isActive bool) error
}

type productRepository struct {
	db *database.Database
}

func NewProductRepository(db *database.Database) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.IsDeleted = false
	product.CreatedAt = time.Now().UTC()

	if err := r.db.DB.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = false AND is_user_active = true", id).
		First(&product).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (r *productRepository) GetAll(ctx context.Context, filter *model.Filter) ([]*model.Product, error) {
	var products []*model.Product
	err := r.applyFilter(r.db.DB.WithContext(ctx), filter).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetPaged(ctx context.Context, pageNumber, pageSize int, filter *model.Filter) ([]*model.Product, error) {
	pageNumber, pageSize = clampPaging(pageNumber, pageSize)

	var products []*model.Product
	err := r.applyFilter(r.db.DB.WithContext(ctx), filter).
		Order("id").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

func (r *productRepository) GetByOwner(ctx context.Context, ownerID uint) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", ownerID).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products by owner: %w", err)
	}

	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	result := r.db.DB.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":         product.Name,
			"description":  product.Description,
			"price":        product.Price,
			"is_available": product.IsAvailable,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) SetDeleted(ctx context.Context, id uint, deleted bool) error {
	result := r.db.DB.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Update("is_deleted", deleted)

	if result.Error != nil {
		return fmt.Errorf("failed to update deletion status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// UpdateOwnerActiveStatus bulk-applies the owner-active cache for every row
// the owner has. Zero rows affected is fine: the owner may simply have no
// products yet.
func (r *productRepository) UpdateOwnerActiveStatus(ctx context.Context, ownerID uint, isActive bool) error {
	err := r.db.DB.WithContext(ctx).Model(&model.Product{}).
		Where("user_id = ?", ownerID).
		Update("is_user_active", isActive).Error
	if err != nil {
		return fmt.Errorf("failed to update owner active status: %w", err)
	}
	return nil
}

// clampPaging normalizes page number to at least 1 and page size into
// [1,100].
func clampPaging(pageNumber, pageSize int) (int, int) {
	return max(1, pageNumber), min(max(1, pageSize), 100)
}

func (r *productRepository) applyFilter(db *gorm.DB, filter *model.Filter) *gorm.DB {
	includeDeleted := filter != nil && filter.IncludeDeleted
	includeInactive := filter != nil && filter.IncludeInactiveOwners

	if !includeDeleted {
		db = db.Where("is_deleted = false")
	}
	if !includeInactive {
		db = db.Where("is_user_active = true")
	}

	if filter == nil {
		return db
	}

	if filter.OwnerID != nil {
		db = db.Where("user_id = ?", *filter.OwnerID)
	}
	if filter.NameContains != nil && *filter.NameContains != "" {
		db = db.Where("name LIKE ?", "%"+*filter.NameContains+"%")
	}
	if filter.MinPrice != nil {
		db = db.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.IsAvailable != nil {
		db = db.Where("is_available = ?", *filter.IsAvailable)
	}

	return db
}
