package collection

import (
	"context"

	"github.com/kailas-cloud/ocrdesk/internal/domain/listing"
)

// Repository defines the document listing contract.
type Repository interface {
	List(ctx context.Context, q listing.Query) (listing.Page, error)
	Delete(ctx context.Context, id string) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// AlwaysConfirm approves every prompt.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) bool { return true })
