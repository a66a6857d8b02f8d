package sales

import (
	"context"
	"time"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Settle(ctx context.Context, saleID string, actor auth.Actor) error
	GetByID(ctx context.Context, saleID string) (*Sale, error)
	ListByVendor(ctx context.Context, vendorID string, actor auth.Actor, limit, page *int32) ([]*Sale, error)
	TotalSalesAmount(ctx context.Context, from, to time.Time, vendorID *string) (float64, error)
	TotalCommission(ctx context.Context, from, to time.Time, vendorID *string) (float64, error)
	TopVendors(ctx context.Context, from, to time.Time, limit int32) ([]*VendorTotals, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Settle(ctx context.Context, saleID string, actor auth.Actor) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Settle"),
		zap.String("sale_id", saleID),
	)

	if err := auth.Can(actor, auth.ActionSaleSettle, auth.Resource{Kind: "sale", ID: saleID}); err != nil {
		return err
	}

	if err := s.repo.Settle(ctx, saleID); err != nil {
		log.Error("failed to settle sale", zap.Error(err))
		return err
	}

	log.Info("sale settled")
	return nil
}

func (s *service) GetByID(ctx context.Context, saleID string) (*Sale, error) {
	return s.repo.GetByID(ctx, saleID)
}

// ListByVendor scopes non-admin vendors to their own ledger.
func (s *service) ListByVendor(ctx context.Context, vendorID string, actor auth.Actor, limit, page *int32) ([]*Sale, error) {
	if !actor.IsAdmin() {
		vendorID = actor.UserID
	}
	return s.repo.ListByVendor(ctx, vendorID, limit, page)
}

func (s *service) TotalSalesAmount(ctx context.Context, from, to time.Time, vendorID *string) (float64, error) {
	return s.repo.TotalSalesAmount(ctx, from, to, vendorID)
}

func (s *service) TotalCommission(ctx context.Context, from, to time.Time, vendorID *string) (float64, error) {
	return s.repo.TotalCommission(ctx, from, to, vendorID)
}

func (s *service) TopVendors(ctx context.Context, from, to time.Time, limit int32) ([]*VendorTotals, error) {
	return s.repo.TopVendors(ctx, from, to, limit)
}
