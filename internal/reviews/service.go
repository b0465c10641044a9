package reviews

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	product "github.com/shoplux/shoplux-backend/internal/products"
	"github.com/shoplux/shoplux-backend/pkg/db/models"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// SubmitInput carries a new or replacement review from the controller.
type SubmitInput struct {
	ProductID uuid.UUID
	Rating    int
	Title     *string
	Comment   string
}

// ServiceParams groups dependencies for the reviews service.
type ServiceParams struct {
	ReviewRepo  *Repository
	ProductRepo *product.Repository
}

// Service exposes business rules for product reviews.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ReviewDTO, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (PageDTO, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
}

type service struct {
	reviewRepo  *Repository
	productRepo *product.Repository
}

// NewService builds a reviews service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ReviewRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "review repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product repo is required")
	}
	return &service{
		reviewRepo:  params.ReviewRepo,
		productRepo: params.ProductRepo,
	}, nil
}

// Submit writes the user's review of a product. A second submission for the
// same product replaces the first one; verified_purchase is derived from the
// user's delivered orders, never from the payload.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*ReviewDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(input.Comment)
	if comment == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a review comment is required")
	}

	row, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	verified, err := s.reviewRepo.HasDeliveredPurchase(ctx, userID, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	review, err := s.reviewRepo.FindByProductAndUser(ctx, input.ProductID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load existing review")
	}
	if review == nil {
		review = &models.Review{ProductID: input.ProductID, UserID: userID}
	}
	review.Rating = input.Rating
	review.Title = normalizeTitle(input.Title)
	review.Comment = comment
	review.VerifiedPurchase = verified

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review")
	}
	if err := s.reviewRepo.RefreshProductRating(ctx, input.ProductID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh product rating")
	}

	dto := newReviewDTO(review)
	return &dto, nil
}

// ListByProduct returns a page of the product's reviews, newest first.
func (s *service) ListByProduct(ctx context.Context, productID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	if productID == uuid.Nil {
		return PageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	rows, next, err := s.reviewRepo.ListByProduct(ctx, productID, pagination.Params{Limit: limit, Cursor: cursor})
	if err != nil {
		return PageDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "list reviews")
	}
	return newPageDTO(rows, next), nil
}

// Delete removes the user's own review and refreshes the product aggregate.
func (s *service) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	if userID == uuid.Nil || reviewID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	review, err := s.reviewRepo.FindByIDForUser(ctx, userID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	if err := s.reviewRepo.RefreshProductRating(ctx, review.ProductID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh product rating")
	}
	return nil
}

func normalizeTitle(title *string) *string {
	if title == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*title)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
