package cart

import (
	"context"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	AddToCart(ctx context.Context, params AddToCartParams) (*CartItem, error)
	GetCart(ctx context.Context) ([]*CartRow, int64, error)
	UpdateCartQuantity(ctx context.Context, params UpdateCartParams) error
	RemoveFromCart(ctx context.Context, productIDs []string) error
	ClearCart(ctx context.Context) error
	GetCartCount(ctx context.Context) (int64, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) AddToCart(ctx context.Context, params AddToCartParams) (*CartItem, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil, ErrUserNotAuthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.String("product_id", params.ProductID),
	)

	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	existing, err := s.repo.GetCartItemByUserAndProduct(ctx, actor.UserID, params.ProductID)
	if err != nil {
		return nil, err
	}

	finalQuantity := params.Quantity
	if existing != nil {
		finalQuantity += existing.Quantity
	}

	if finalQuantity > p.Stock {
		return nil, fault.ErrInsufficientStock
	}

	if existing != nil {
		item, err := s.repo.UpdateCartItemQuantity(ctx, existing.ID, finalQuantity)
		if err != nil {
			log.Error("failed to update cart item", zap.Error(err))
			return nil, err
		}
		return item, nil
	}

	item, err := s.repo.CreateCartItem(ctx, actor.UserID, params.ProductID, params.Quantity)
	if err != nil {
		log.Error("failed to create cart item", zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (s *service) GetCart(ctx context.Context) ([]*CartRow, int64, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return nil, 0, ErrUserNotAuthenticated
	}

	rows, err := s.repo.GetCartRows(ctx, actor.UserID)
	if err != nil {
		return nil, 0, ErrFailedGetCartRows
	}

	total, err := s.repo.CountCartItems(ctx, actor.UserID)
	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (s *service) UpdateCartQuantity(ctx context.Context, params UpdateCartParams) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return ErrUserNotAuthenticated
	}

	if params.Quantity == 0 {
		return s.repo.RemoveFromCart(ctx, actor.UserID, []string{params.ProductID})
	}
	if params.Quantity < 0 {
		return ErrInvalidQuantity
	}

	existing, err := s.repo.GetCartItemByUserAndProduct(ctx, actor.UserID, params.ProductID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrCartItemNotFound
	}

	_, err = s.repo.UpdateCartItemQuantity(ctx, existing.ID, params.Quantity)
	return err
}

func (s *service) RemoveFromCart(ctx context.Context, productIDs []string) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return ErrUserNotAuthenticated
	}

	if len(productIDs) == 0 {
		return ErrInvalidRemoveCartInput
	}

	return s.repo.RemoveFromCart(ctx, actor.UserID, productIDs)
}

func (s *service) ClearCart(ctx context.Context) error {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return ErrUserNotAuthenticated
	}

	return s.repo.ClearCart(ctx, actor.UserID)
}

func (s *service) GetCartCount(ctx context.Context) (int64, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return 0, ErrUserNotAuthenticated
	}

	return s.repo.CountCartItems(ctx, actor.UserID)
}
