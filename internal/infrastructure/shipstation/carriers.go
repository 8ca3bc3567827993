package shipstation

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// ListCarriers fetches every carrier connected to the account.
// The endpoint returns a bare JSON array rather than a paged envelope.
func (c *Client) ListCarriers(ctx context.Context) ([]Carrier, error) {
	raw, err := c.Request(ctx, http.MethodGet, "/carriers", nil, nil)
	if err != nil {
		return nil, err
	}
	var carriers []Carrier
	if err := decodeValue(raw, &carriers); err != nil {
		return nil, fmt.Errorf("decode carriers: %w", err)
	}
	return carriers, nil
}

// CarrierServices fetches the services one carrier offers.
func (c *Client) CarrierServices(ctx context.Context, carrierCode string) ([]CarrierService, error) {
	raw, err := c.carrierListing(ctx, "/carriers/listservices", carrierCode)
	if err != nil {
		return nil, err
	}
	var services []CarrierService
	if err := decodeValue(raw, &services); err != nil {
		return nil, fmt.Errorf("decode services for %s: %w", carrierCode, err)
	}
	return services, nil
}

// CarrierPackages fetches the package types one carrier offers.
func (c *Client) CarrierPackages(ctx context.Context, carrierCode string) ([]CarrierPackage, error) {
	raw, err := c.carrierListing(ctx, "/carriers/listpackages", carrierCode)
	if err != nil {
		return nil, err
	}
	var packages []CarrierPackage
	if err := decodeValue(raw, &packages); err != nil {
		return nil, fmt.Errorf("decode packages for %s: %w", carrierCode, err)
	}
	return packages, nil
}

func (c *Client) carrierListing(ctx context.Context, path, carrierCode string) (any, error) {
	if carrierCode == "" {
		return nil, shipping.ErrCarrierCodeRequired
	}
	query := url.Values{}
	query.Set("carrierCode", carrierCode)
	return c.Request(ctx, http.MethodGet, path, query, nil)
}
