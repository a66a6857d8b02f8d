package product

import (
	"context"
	"errors"
	"strings"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/cache"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/metrics"
	"bazaar-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, draft Draft, actor auth.Actor) (*Product, error)
	Transition(ctx context.Context, productID string, newStatus Status, actor auth.Actor) (*Product, error)
	UpdateStock(ctx context.Context, productID string, delta int, actor auth.Actor) (int, error)
	GetProductByID(ctx context.Context, productID string) (*Product, error)
	ListByCategory(ctx context.Context, categoryID string, cursor *string, limit int32) (*Page, error)
	ListSimilar(ctx context.Context, productID string, categoryID, subCategoryID *string) ([]*Product, error)
}

type service struct {
	repo        Repository
	invalidator cache.Invalidator
}

func NewService(repo Repository, invalidator cache.Invalidator) Service {
	return &service{repo: repo, invalidator: invalidator}
}

// Submit creates a listing. Administrator submissions go live immediately;
// vendor submissions wait for review even when the vendor's store is not
// yet approved.
func (s *service) Submit(ctx context.Context, draft Draft, actor auth.Actor) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.String("actor_id", actor.UserID),
	)

	if err := auth.Can(actor, auth.ActionProductSubmit, auth.Resource{Kind: "product"}); err != nil {
		return nil, err
	}

	if strings.TrimSpace(draft.Title) == "" {
		return nil, fault.Validationf("title cannot be empty")
	}
	if draft.Price < 0 {
		return nil, fault.Validationf("price cannot be negative")
	}
	if draft.Stock < 0 {
		return nil, fault.Validationf("stock cannot be negative")
	}
	if draft.DepartmentID == "" {
		return nil, fault.Validationf("department is required")
	}

	vendorID := actor.UserID
	storeID := ""
	if actor.StoreID != nil {
		storeID = *actor.StoreID
	}
	if actor.IsAdmin() && draft.VendorID != "" {
		vendorID = draft.VendorID
		storeID = draft.StoreID
	}
	if storeID == "" {
		return nil, fault.Validationf("submitting vendor has no store")
	}

	status := StatusPending
	if actor.IsAdmin() {
		status = StatusActive
	}

	p := Product{
		Title:         draft.Title,
		Slug:          utils.Slugify(draft.Title, vendorID),
		Description:   draft.Description,
		ImageURL:      draft.ImageURL,
		Price:         draft.Price,
		SalePrice:     draft.SalePrice,
		Discount:      draft.Discount,
		IsDiscount:    draft.IsDiscount,
		Stock:         draft.Stock,
		LowStockAlert: draft.LowStockAlert,
		Qty:           draft.Qty,
		IsActive:      true,
		IsFeatured:    draft.IsFeatured,
		IsNewArrival:  draft.IsNewArrival,
		IsWholesale:   draft.IsWholesale,
		Status:        status,
		VendorID:      vendorID,
		StoreID:       storeID,
		DepartmentID:  draft.DepartmentID,
		CategoryID:    draft.CategoryID,
		SubCategoryID: draft.SubCategoryID,
		BrandID:       draft.BrandID,
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.PathProductList, cache.PathProductApprovals)

	log.Info("product submitted",
		zap.String("product_id", created.ID),
		zap.String("status", string(created.Status)),
	)

	return &created, nil
}

// Transition moves a product between lifecycle states. Every state may move
// to every other, but ACTIVE always turns visibility on and INACTIVE always
// turns it off. Vendors cannot activate directly; their transitions are
// forced back to PENDING for re-review.
func (s *service) Transition(ctx context.Context, productID string, newStatus Status, actor auth.Actor) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("product_id", productID),
		zap.String("new_status", string(newStatus)),
	)

	if !ValidStatus(newStatus) {
		return nil, fault.Validationf("unknown status %q", string(newStatus))
	}

	current, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	res := auth.Resource{Kind: "product", ID: productID, OwnerID: current.VendorID}
	if err := auth.Can(actor, auth.ActionProductTransition, res); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && newStatus == StatusActive {
		newStatus = StatusPending
	}

	var isActive *bool
	switch newStatus {
	case StatusActive:
		v := true
		isActive = &v
	case StatusInactive:
		v := false
		isActive = &v
	}

	updated, err := s.repo.UpdateStatus(ctx, productID, newStatus, isActive)
	if err != nil {
		log.Error("failed to update product status", zap.Error(err))
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.PathProductList, cache.PathProductApprovals)

	log.Info("product transitioned",
		zap.String("from", string(current.Status)),
		zap.String("to", string(updated.Status)),
		zap.Bool("is_active", updated.IsActive),
	)

	return updated, nil
}

// UpdateStock atomically adjusts stock; a delta that would go negative is
// rejected without mutation. Dropping below the alert threshold is reported
// in the log, not as an error.
func (s *service) UpdateStock(ctx context.Context, productID string, delta int, actor auth.Actor) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStock"),
		zap.String("product_id", productID),
		zap.Int("delta", delta),
	)

	current, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	res := auth.Resource{Kind: "product", ID: productID, OwnerID: current.VendorID}
	if err := auth.Can(actor, auth.ActionProductStock, res); err != nil {
		return 0, err
	}

	stock, alert, err := s.repo.AdjustStock(ctx, productID, delta)
	if err != nil {
		if errors.Is(err, fault.ErrInsufficientStock) {
			metrics.StockRejected.Inc()
			log.Warn("stock adjustment rejected")
		}
		return 0, err
	}

	if stock < alert {
		log.Warn("stock below alert threshold",
			zap.Int("stock", stock),
			zap.Int("low_stock_alert", alert),
		)
	}

	return stock, nil
}

func (s *service) GetProductByID(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// ListByCategory serves cursor pagination: limit+1 rows are fetched and the
// extra row only signals hasMore. The cursor is the id of the last item of
// the page, never an offset.
func (s *service) ListByCategory(ctx context.Context, categoryID string, cursor *string, limit int32) (*Page, error) {
	if categoryID == "" {
		return nil, fault.Validationf("categoryID is required")
	}

	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	items, err := s.repo.ListByCategory(ctx, categoryID, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	page := &Page{Items: items}
	if len(items) > int(limit) {
		page.Items = items[:limit]
		page.HasMore = true
		page.NextCursor = &page.Items[limit-1].ID
	}

	return page, nil
}

func (s *service) ListSimilar(ctx context.Context, productID string, categoryID, subCategoryID *string) ([]*Product, error) {
	if productID == "" {
		return nil, fault.Validationf("productID is required")
	}
	return s.repo.ListSimilar(ctx, productID, categoryID, subCategoryID)
}
