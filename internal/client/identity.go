package client

import (
	"context"
	"fmt"
	"net/url"
)

const serviceIdentity = "identity_store"

// IdentityStore is a client for the identity store.
type IdentityStore struct {
	base
}

// NewIdentityStore returns a client for the identity store at baseURL.
func NewIdentityStore(baseURL, token string, opts ...Option) *IdentityStore {
	return &IdentityStore{base: newBase(serviceIdentity, baseURL, token, opts)}
}

type addressPage struct {
	Count   int `json:"count"`
	Results []struct {
		Address string `json:"address"`
	} `json:"results"`
}

// LookupDefaultAddress returns the default msisdn of an identity.
func (c *IdentityStore) LookupDefaultAddress(ctx context.Context, identity string) (string, error) {
	var page addressPage
	path := "/identities/" + url.PathEscape(identity) + "/addresses/msisdn"
	q := url.Values{"default": {"True"}}
	if err := c.call(ctx, "lookup_address", "GET", path, q, nil, &page); err != nil {
		return "", err
	}
	if len(page.Results) == 0 || page.Results[0].Address == "" {
		return "", NewError(CategoryNotFound, c.service,
			fmt.Sprintf("identity %s has no default msisdn", identity), nil)
	}
	return page.Results[0].Address, nil
}
