// Package prelander resolves which configuration should render the
// interstitial email-capture page for an incoming identifier.
package prelander

import (
	"context"
	"errors"
	"fmt"

	"github.com/minglemoody/funnel-tracker/internal/domain"
	"github.com/minglemoody/funnel-tracker/internal/storage"
)

// ErrNotFound is returned when no active configuration resolves for the
// given identifier. It is an expected outcome: the caller renders the
// default experience instead of an error page.
var ErrNotFound = errors.New("prelander: config not found")

// ConfigStore is the read side of the prelander repository.
type ConfigStore interface {
	GetActiveByKey(ctx context.Context, pageKey string) (*domain.PrelanderConfig, error)
}

// OfferStore loads web results for offer-id resolution.
type OfferStore interface {
	GetByID(ctx context.Context, id string) (*domain.WebResult, error)
}

// Resolver resolves prelander configurations. It is read-only, performs
// a single fetch per lookup, and never retries: transient storage
// failures surface as ErrNotFound so the visitor path can fall back.
type Resolver struct {
	configs ConfigStore
	offers  OfferStore
}

// NewResolver creates a Resolver.
func NewResolver(configs ConfigStore, offers OfferStore) *Resolver {
	return &Resolver{configs: configs, offers: offers}
}

// ResolveByKey fetches the active configuration for an explicit page key.
// A missing or deactivated configuration fails with ErrNotFound.
func (r *Resolver) ResolveByKey(ctx context.Context, pageKey string) (*domain.PrelanderConfig, error) {
	if pageKey == "" {
		return nil, ErrNotFound
	}

	cfg, err := r.configs.GetActiveByKey(ctx, pageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve by key %q: %w", pageKey, err)
	}

	return cfg, nil
}

// ResolveByOffer resolves through a web result's linked page key. The
// backlink fails closed: an offer without a key, or a key whose
// configuration is missing or inactive, yields ErrNotFound together with
// the offer itself so the caller can render the default experience from
// the offer's own title and description. An unknown offer id resolves to
// (nil, nil, ErrNotFound), so malformed identifiers behave exactly like
// absent configuration.
func (r *Resolver) ResolveByOffer(ctx context.Context, offerID string) (*domain.PrelanderConfig, *domain.WebResult, error) {
	if offerID == "" {
		return nil, nil, ErrNotFound
	}

	offer, err := r.offers.GetByID(ctx, offerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolve offer %q: %w", offerID, err)
	}

	if offer.PrelanderPageKey == "" {
		return nil, offer, ErrNotFound
	}

	cfg, err := r.ResolveByKey(ctx, offer.PrelanderPageKey)
	if err != nil {
		return nil, offer, ErrNotFound
	}

	return cfg, offer, nil
}
