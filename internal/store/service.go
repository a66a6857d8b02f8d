package store

import (
	"context"
	"strings"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/cache"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/logger"
	"bazaar-be/internal/notify"
	"bazaar-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	SubmitStore(ctx context.Context, input SubmitStoreInput, actor auth.Actor) (*Store, error)
	Approve(ctx context.Context, storeID string, actor auth.Actor) (*Store, error)
	Reject(ctx context.Context, storeID, reason string, actor auth.Actor) (*Store, error)
	UpdateProfile(ctx context.Context, storeID string, input UpdateStoreInput, actor auth.Actor) (*Store, error)
	GetByID(ctx context.Context, storeID string) (*Store, error)
	ListPending(ctx context.Context, limit, page *int32) ([]*Store, error)
}

type service struct {
	repo        Repository
	notifier    notify.Notifier
	invalidator cache.Invalidator
}

func NewService(repo Repository, notifier notify.Notifier, invalidator cache.Invalidator) Service {
	return &service{repo: repo, notifier: notifier, invalidator: invalidator}
}

// SubmitStore creates the storefront and moves the owner into the approval
// queue. A user can hold at most one store.
func (s *service) SubmitStore(ctx context.Context, input SubmitStoreInput, actor auth.Actor) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SubmitStore"),
		zap.String("user_id", actor.UserID),
	)

	if err := auth.Can(actor, auth.ActionStoreSubmit, auth.Resource{Kind: "store"}); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, fault.Validationf("store name cannot be empty")
	}

	existing, err := s.repo.GetByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fault.Validationf("user already owns a store")
	}

	created, err := s.repo.CreateStoreTx(ctx, Store{
		UserID:      actor.UserID,
		Name:        input.Name,
		Description: input.Description,
		LogoURL:     input.LogoURL,
		DocumentURL: input.DocumentURL,
	})
	if err != nil {
		log.Error("failed to create store", zap.Error(err))
		return nil, err
	}

	s.invalidator.Invalidate(ctx, cache.PathStoreApprovals)

	log.Info("store submitted for approval", zap.String("store_id", created.ID))
	return &created, nil
}

// Approve moves the store owner to APPROVED. Calling it on an already
// approved store is a no-op, not an error.
func (s *service) Approve(ctx context.Context, storeID string, actor auth.Actor) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Approve"),
		zap.String("store_id", storeID),
	)

	if err := auth.Can(actor, auth.ActionStoreApprove, auth.Resource{Kind: "store", ID: storeID}); err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	switch st.VendorStatus {
	case user.VendorApproved:
		return st, nil
	case user.VendorPending, user.VendorRejected:
	default:
		return nil, fault.Transitionf("cannot approve store in vendor status %s", st.VendorStatus)
	}

	if err := s.repo.SetVendorStatusTx(ctx, storeID, user.VendorApproved, nil); err != nil {
		log.Error("failed to approve store", zap.Error(err))
		return nil, err
	}

	st.VendorStatus = user.VendorApproved
	st.RejectReason = nil

	s.notifier.Send(ctx, notify.Notification{
		Recipient: st.OwnerEmail,
		Template:  notify.TemplateStoreApproved,
		Payload:   map[string]string{"store_name": st.Name},
	})
	s.invalidator.Invalidate(ctx, cache.PathStoreApprovals)

	log.Info("store approved", zap.String("user_id", st.UserID))
	return st, nil
}

// Reject records the reason and moves the owner to REJECTED. Existing
// products of the vendor stay untouched; rejection does not cascade into
// the catalog.
func (s *service) Reject(ctx context.Context, storeID, reason string, actor auth.Actor) (*Store, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Reject"),
		zap.String("store_id", storeID),
	)

	if err := auth.Can(actor, auth.ActionStoreReject, auth.Resource{Kind: "store", ID: storeID}); err != nil {
		return nil, err
	}

	if strings.TrimSpace(reason) == "" {
		return nil, fault.Validationf("rejection reason cannot be empty")
	}

	st, err := s.repo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	switch st.VendorStatus {
	case user.VendorRejected:
		return st, nil
	case user.VendorPending, user.VendorApproved:
	default:
		return nil, fault.Transitionf("cannot reject store in vendor status %s", st.VendorStatus)
	}

	if err := s.repo.SetVendorStatusTx(ctx, storeID, user.VendorRejected, &reason); err != nil {
		log.Error("failed to reject store", zap.Error(err))
		return nil, err
	}

	st.VendorStatus = user.VendorRejected
	st.RejectReason = &reason

	s.notifier.Send(ctx, notify.Notification{
		Recipient: st.OwnerEmail,
		Template:  notify.TemplateStoreRejected,
		Payload: map[string]string{
			"store_name": st.Name,
			"reason":     reason,
		},
	})
	s.invalidator.Invalidate(ctx, cache.PathStoreApprovals)

	log.Info("store rejected", zap.String("user_id", st.UserID))
	return st, nil
}

func (s *service) UpdateProfile(ctx context.Context, storeID string, input UpdateStoreInput, actor auth.Actor) (*Store, error) {
	st, err := s.repo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && st.UserID != actor.UserID {
		return nil, fault.NotFoundf("store %s", storeID)
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fault.Validationf("store name cannot be empty")
	}

	return s.repo.UpdateProfile(ctx, storeID, input)
}

func (s *service) GetByID(ctx context.Context, storeID string) (*Store, error) {
	return s.repo.GetByID(ctx, storeID)
}

func (s *service) ListPending(ctx context.Context, limit, page *int32) ([]*Store, error) {
	return s.repo.ListByVendorStatus(ctx, user.VendorPending, limit, page)
}
