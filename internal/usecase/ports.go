package usecase

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

type PreferenceItem struct {
	ProductDetailID int64
	Quantity        int64
	UnitPrice       int64
}

type Customer struct {
	Name     string
	Mail     string
	Document string
	Type     string
}

type PreferenceInput struct {
	ExternalReference string
	Items             []PreferenceItem
	Customer          Customer
}

type Preference struct {
	Reference   string
	PaymentLink string
}

// PaymentGateway requests a payment preference/link from the external
// provider. The provider later reports back through the webhook.
type PaymentGateway interface {
	CreatePreference(ctx context.Context, in PreferenceInput) (Preference, error)
}

// OrderCache caches order status by external reference for the storefront
// polling path.
type OrderCache interface {
	Get(ctx context.Context, ref string) (string, bool, error)
	Set(ctx context.Context, ref string, status string) error
	Invalidate(ctx context.Context, ref string) error
}
