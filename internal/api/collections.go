package api

import (
	"context"

	"pbextract/internal/schema"
)

// ReadCollections signs in to the server at baseURL and returns its
// collections without the system ones (names starting with "_").
func ReadCollections(ctx context.Context, baseURL, user, password string, opts ...Option) ([]schema.RawCollection, error) {
	c, err := New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.AuthWithPassword(ctx, user, password); err != nil {
		return nil, err
	}
	all, err := c.Collections(ctx)
	if err != nil {
		return nil, err
	}
	return WithoutSystem(all), nil
}

// WithoutSystem drops system collections, keeping order.
func WithoutSystem(rows []schema.RawCollection) []schema.RawCollection {
	out := make([]schema.RawCollection, 0, len(rows))
	for _, r := range rows {
		if !r.IsSystem() {
			out = append(out, r)
		}
	}
	return out
}
