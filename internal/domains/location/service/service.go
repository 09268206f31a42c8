package service

import (
	"context"
	"errors"
	"net/url"

	"ams-gateway/internal/domains/location"
	"ams-gateway/internal/domains/location/model"
	"ams-gateway/internal/upstream"
)

// ErrStoreNotFound is returned when a named store is absent from the
// platform's store list.
var ErrStoreNotFound = errors.New("store not found")

// UpstreamAPI is the slice of the platform client this service needs.
type UpstreamAPI interface {
	ListLocations(ctx context.Context, auth string, query url.Values) (upstream.List[model.Location], error)
	ListStores(ctx context.Context, auth string, query url.Values) (upstream.List[model.Store], error)
}

// Service serves the location hierarchy and store lists the forms build
// their pickers from.
type Service struct {
	api UpstreamAPI
}

func NewService(api UpstreamAPI) *Service {
	return &Service{api: api}
}

// Locations proxies the location hierarchy listing.
func (s *Service) Locations(ctx context.Context, auth string, query url.Values) (upstream.List[model.Location], error) {
	return s.api.ListLocations(ctx, auth, query)
}

// Stores proxies the store listing.
func (s *Service) Stores(ctx context.Context, auth string, query url.Values) (upstream.List[model.Store], error) {
	return s.api.ListStores(ctx, auth, query)
}

// AccessibleStores resolves the caller's store-code claims against the
// platform's store list.
func (s *Service) AccessibleStores(ctx context.Context, auth string, codes []string) ([]model.Store, error) {
	list, err := s.api.ListStores(ctx, auth, nil)
	if err != nil {
		return nil, err
	}

	accessible := make([]model.Store, 0, len(codes))
	for _, st := range list.Results {
		for _, code := range codes {
			if st.Code == code {
				accessible = append(accessible, st)
				break
			}
		}
	}
	return accessible, nil
}

// ValidSources computes which stores may feed a RECEIPT into the given
// receiving store.
func (s *Service) ValidSources(ctx context.Context, auth string, receivingID int64) ([]model.Store, error) {
	list, err := s.api.ListStores(ctx, auth, nil)
	if err != nil {
		return nil, err
	}

	for _, st := range list.Results {
		if st.ID == receivingID {
			return location.ValidSourceStores(st, list.Results), nil
		}
	}
	return nil, ErrStoreNotFound
}
