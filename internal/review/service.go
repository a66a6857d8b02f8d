package review

import (
	"context"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/cache"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/product"

	"go.uber.org/zap"
)

type Service interface {
	AddReview(ctx context.Context, input AddReviewInput, actor auth.Actor) (*Review, error)
	SetApproval(ctx context.Context, reviewID string, approved bool, actor auth.Actor) (*Review, error)
	ListByProduct(ctx context.Context, productID string, actor auth.Actor, limit, page *int32) ([]*Review, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
	invalidator cache.Invalidator
}

func NewService(repo Repository, productRepo product.Repository, invalidator cache.Invalidator) Service {
	return &service{repo: repo, productRepo: productRepo, invalidator: invalidator}
}

// AddReview records a buyer's rating. The review waits for moderation
// and does not touch the product aggregate until approved.
func (s *service) AddReview(ctx context.Context, input AddReviewInput, actor auth.Actor) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddReview"),
		zap.String("product_id", input.ProductID),
	)

	if input.Rating < 1 || input.Rating > 5 {
		return nil, fault.Validationf("rating must be between 1 and 5, got %d", input.Rating)
	}

	if _, err := s.productRepo.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	purchased, err := s.repo.HasPurchased(ctx, actor.UserID, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, fault.Validationf("only buyers with a delivered order can review this product")
	}

	created, err := s.repo.Create(ctx, Review{
		ProductID:  input.ProductID,
		UserID:     actor.UserID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		IsApproved: false,
	})
	if err != nil {
		return nil, err
	}

	log.Info("review submitted", zap.String("review_id", created.ID), zap.Int("rating", created.Rating))
	return &created, nil
}

// SetApproval moderates a review and recomputes the product aggregate
// either way, since revoking approval changes the mean too.
func (s *service) SetApproval(ctx context.Context, reviewID string, approved bool, actor auth.Actor) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetApproval"),
		zap.String("review_id", reviewID),
	)

	if err := auth.Can(actor, auth.ActionReviewModerate, auth.Resource{Kind: "review", ID: reviewID}); err != nil {
		return nil, err
	}

	rv, err := s.repo.SetApproval(ctx, reviewID, approved)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecomputeRating(ctx, rv.ProductID); err != nil {
		log.Error("rating recompute failed", zap.Error(err))
		return nil, err
	}
	s.invalidator.Invalidate(ctx, cache.PathProductList)

	log.Info("review moderated", zap.Bool("approved", approved), zap.String("product_id", rv.ProductID))
	return rv, nil
}

func (s *service) ListByProduct(ctx context.Context, productID string, actor auth.Actor, limit, page *int32) ([]*Review, error) {
	approvedOnly := !actor.IsAdmin()
	return s.repo.ListByProduct(ctx, productID, approvedOnly, limit, page)
}
