package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"innoshop/internal/logger"
	"innoshop/internal/product/model"
	"innoshop/internal/product/repository"
	"innoshop/internal/result"
	"innoshop/pkg/utils"
)

// UserDirectory answers account questions the catalog cannot answer locally.
// Both calls degrade closed: if the User service is unreachable the answer
// is false, so mutations are refused rather than allowed blind.
type UserDirectory interface {
	Exists(ctx context.Context, userID uint) bool
	IsEmailConfirmed(ctx context.Context, userID uint) bool
}

// ProductService owns catalog reads and writes. Every mutation is gated on
// the requester having a confirmed email, and update/delete additionally on
// ownership of the row.
type ProductService struct {
	repo  repository.ProductRepository
	users UserDirectory
}

func NewProductService(repo repository.ProductRepository, users UserDirectory) *ProductService {
	return &ProductService{repo: repo, users: users}
}

func (s *ProductService) GetByID(ctx context.Context, id uint) result.Result[*model.ProductResponse] {
	product, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return result.Failure[*model.ProductResponse](result.NotFound, "Product not found")
	}
	if err != nil {
		return internalError[*model.ProductResponse]("failed to get product", err)
	}

	return result.Success(model.ToProductResponse(product))
}

func (s *ProductService) GetAll(ctx context.Context, filter *model.Filter) result.Result[[]*model.ProductResponse] {
	products, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return internalError[[]*model.ProductResponse]("failed to list products", err)
	}

	return result.Success(model.ToProductResponses(products))
}

func (s *ProductService) GetPaged(ctx context.Context, pageNumber, pageSize int, filter *model.Filter) result.Result[[]*model.ProductResponse] {
	products, err := s.repo.GetPaged(ctx, pageNumber, pageSize, filter)
	if err != nil {
		return internalError[[]*model.ProductResponse]("failed to list products", err)
	}

	return result.Success(model.ToProductResponses(products))
}

func (s *ProductService) GetByOwner(ctx context.Context, ownerID uint) result.Result[[]*model.ProductResponse] {
	if !s.users.Exists(ctx, ownerID) {
		return result.Failure[[]*model.ProductResponse](result.NotFound, "User not found")
	}

	products, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return internalError[[]*model.ProductResponse]("failed to list products by owner", err)
	}

	return result.Success(model.ToProductResponses(products))
}

func (s *ProductService) Create(ctx context.Context, requesterID uint, req *model.ProductRequest) result.Result[*model.ProductResponse] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[*model.ProductResponse](result.Validation, messages)
	}

	if !s.users.IsEmailConfirmed(ctx, requesterID) {
		return result.Failure[*model.ProductResponse](result.Forbidden, "Email confirmation required to manage products")
	}

	product := &model.Product{
		Name:         utils.SanitizeString(req.Name),
		Description:  utils.SanitizeString(req.Description),
		Price:        req.Price,
		IsAvailable:  req.IsAvailable,
		UserID:       requesterID,
		IsUserActive: true,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return internalError[*model.ProductResponse]("failed to create product", err)
	}

	logger.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.Uint("user_id", requesterID),
		zap.String("event", "product_created"),
	)

	return result.Success(model.ToProductResponse(product))
}

func (s *ProductService) Update(ctx context.Context, requesterID, productID uint, req *model.ProductRequest) result.Result[*model.ProductResponse] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[*model.ProductResponse](result.Validation, messages)
	}

	if !s.users.IsEmailConfirmed(ctx, requesterID) {
		return result.Failure[*model.ProductResponse](result.Forbidden, "Email confirmation required to manage products")
	}

	product, err := s.repo.GetByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return result.Failure[*model.ProductResponse](result.NotFound, "Product not found")
	}
	if err != nil {
		return internalError[*model.ProductResponse]("failed to get product", err)
	}

	if product.UserID != requesterID {
		return result.Failure[*model.ProductResponse](result.Forbidden, "You can only modify your own products")
	}

	product.Name = utils.SanitizeString(req.Name)
	product.Description = utils.SanitizeString(req.Description)
	product.Price = req.Price
	product.IsAvailable = req.IsAvailable

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return result.Failure[*model.ProductResponse](result.NotFound, "Product not found")
		}
		return internalError[*model.ProductResponse]("failed to update product", err)
	}

	logger.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.Uint("user_id", requesterID),
		zap.String("event", "product_updated"),
	)

	return result.Success(model.ToProductResponse(product))
}

func (s *ProductService) Delete(ctx context.Context, requesterID, productID uint) result.Result[result.Empty] {
	product, err := s.repo.GetByID(ctx, productID)
	if errors.Is(err, repository.ErrProductNotFound) {
		return result.Failure[result.Empty](result.NotFound, "Product not found")
	}
	if err != nil {
		return internalError[result.Empty]("failed to get product", err)
	}

	if product.UserID != requesterID {
		return result.Failure[result.Empty](result.Forbidden, "You can only modify your own products")
	}

	if !s.users.IsEmailConfirmed(ctx, requesterID) {
		return result.Failure[result.Empty](result.Forbidden, "Email confirmation required to manage products")
	}

	if err := s.repo.SetDeleted(ctx, productID, true); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return result.Failure[result.Empty](result.NotFound, "Product not found")
		}
		return internalError[result.Empty]("failed to delete product", err)
	}

	logger.Info("Product deleted",
		zap.Uint("product_id", productID),
		zap.Uint("user_id", requesterID),
		zap.String("event", "product_deleted"),
	)

	return result.OK()
}

// UpdateOwnerActiveStatus is the receiving side of the user-status sync: it
// flips the denormalized owner-active flag on every product of the owner.
func (s *ProductService) UpdateOwnerActiveStatus(ctx context.Context, ownerID uint, isActive bool) result.Result[result.Empty] {
	if err := s.repo.UpdateOwnerActiveStatus(ctx, ownerID, isActive); err != nil {
		return internalError[result.Empty]("failed to update owner active status", err)
	}

	logger.Info("Owner active status updated",
		zap.Uint("owner_id", ownerID),
		zap.Bool("is_active", isActive),
		zap.String("event", "owner_status_updated"),
	)

	return result.OK()
}

func internalError[T any](message string, err error) result.Result[T] {
	logger.Error(message, zap.Error(err))
	return result.Failure[T](result.InternalServerError, "An unexpected error occurred")
}
