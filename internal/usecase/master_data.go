package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/httpclient"
)

type listFunc func(ctx context.Context, params entity.ListParams) (any, error)

// MasterData groups the typed service of every back-office collection.
type MasterData struct {
	States      *ResourceService[entity.State]
	Users       *ResourceService[entity.User]
	Permissions *ResourceService[entity.Permission]
	Products    *ResourceService[entity.Product]
	Hospitals   *DocumentResourceService[entity.Hospital]
	Doctors     *DocumentResourceService[entity.Doctor]
	Principles  *DocumentResourceService[entity.Principle]
	Candidates  *CandidateService

	lists map[string]listFunc
}

func NewMasterData(client httpclient.HTTPClient, logger *zap.Logger) *MasterData {
	m := &MasterData{
		States:      NewResourceService[entity.State](client, "states", logger),
		Users:       NewResourceService[entity.User](client, "users", logger),
		Permissions: NewResourceService[entity.Permission](client, "permissions", logger),
		Products:    NewResourceService[entity.Product](client, "products", logger),
		Hospitals:   NewDocumentResourceService[entity.Hospital](client, "hospitals", logger),
		Doctors:     NewDocumentResourceService[entity.Doctor](client, "doctors", logger),
		Principles:  NewDocumentResourceService[entity.Principle](client, "principles", logger),
		Candidates:  NewCandidateService(client, logger),
	}

	m.lists = map[string]listFunc{
		"states":      lister(m.States),
		"users":       lister(m.Users),
		"permissions": lister(m.Permissions),
		"products":    lister(m.Products),
		"hospitals":   lister(m.Hospitals.ResourceService),
		"doctors":     lister(m.Doctors.ResourceService),
		"principles":  lister(m.Principles.ResourceService),
		"candidates":  lister(m.Candidates.ResourceService),
	}
	return m
}

func lister[T any](s *ResourceService[T]) listFunc {
	return func(ctx context.Context, params entity.ListParams) (any, error) {
		return s.List(ctx, params)
	}
}

// Resources returns the collection names List accepts, sorted.
func (m *MasterData) Resources() []string {
	names := lo.Keys(m.lists)
	sort.Strings(names)
	return names
}

// List lists a collection by name.
func (m *MasterData) List(ctx context.Context, resource string, params entity.ListParams) (any, error) {
	list, ok := m.lists[resource]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}
	return list(ctx, params)
}
