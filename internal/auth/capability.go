package auth

import (
	"bazaar-be/internal/fault"
)

type Action string

const (
	ActionProductSubmit     Action = "product.submit"
	ActionProductTransition Action = "product.transition"
	ActionProductStock      Action = "product.stock"
	ActionStoreSubmit       Action = "store.submit"
	ActionStoreApprove      Action = "store.approve"
	ActionStoreReject       Action = "store.reject"
	ActionOrderUpdate       Action = "order.update"
	ActionOrderCancel       Action = "order.cancel"
	ActionPaymentUpdate     Action = "payment.update"
	ActionSaleSettle        Action = "sale.settle"
	ActionReviewModerate    Action = "review.moderate"
)

// Resource describes the target of an action. OwnerID is the user id that
// owns the resource, empty when ownership does not apply.
type Resource struct {
	Kind    string
	ID      string
	OwnerID string
}

// Can is the single capability check consulted by every service.
// Ownership failures on scoped resources come back as ErrNotFound so a
// caller cannot distinguish "missing" from "not yours".
func Can(actor Actor, action Action, res Resource) error {
	if actor.IsAdmin() {
		return nil
	}

	switch action {
	case ActionProductSubmit:
		if actor.IsVendor() {
			return nil
		}
		return fault.Authorizationf("role %s cannot submit products", actor.Role)

	case ActionProductTransition, ActionProductStock:
		if !actor.IsVendor() {
			return fault.Authorizationf("role %s cannot manage products", actor.Role)
		}
		if res.OwnerID != actor.UserID {
			return fault.NotFoundf("product %s", res.ID)
		}
		return nil

	case ActionStoreSubmit:
		return nil

	case ActionOrderCancel:
		if res.OwnerID == actor.UserID {
			return nil
		}
		return fault.NotFoundf("order %s", res.ID)

	case ActionStoreApprove, ActionStoreReject,
		ActionOrderUpdate, ActionPaymentUpdate,
		ActionSaleSettle, ActionReviewModerate:
		return fault.Authorizationf("%s requires administrator role", action)
	}

	return fault.Authorizationf("unknown action %s", action)
}
