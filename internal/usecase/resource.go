package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/httpclient"
)

var (
	// ErrInvalidInput is returned before any request is sent.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownResource is returned for resource names with no service.
	ErrUnknownResource = errors.New("unknown resource")
)

// resourcePath joins escaped segments onto a collection path.
func resourcePath(base string, segments ...string) string {
	var sb strings.Builder
	sb.WriteString("/" + strings.Trim(base, "/"))
	for _, s := range segments {
		sb.WriteString("/" + url.PathEscape(s))
	}
	return sb.String()
}

func requireID(name, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return nil
}

// ResourceService is CRUD over one back-office collection.
type ResourceService[T any] struct {
	client   httpclient.HTTPClient
	resource string
	logger   *zap.Logger
}

func NewResourceService[T any](client httpclient.HTTPClient, resource string, logger *zap.Logger) *ResourceService[T] {
	return &ResourceService[T]{
		client:   client,
		resource: resource,
		logger:   logger.With(zap.String("resource", resource)),
	}
}

// Resource returns the collection name, e.g. "states".
func (s *ResourceService[T]) Resource() string {
	return s.resource
}

func (s *ResourceService[T]) List(ctx context.Context, params entity.ListParams) (*entity.ListResponse[T], error) {
	var response entity.ListResponse[T]
	if err := s.client.Get(ctx, resourcePath(s.resource), params.Query(), &response); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.resource, err)
	}

	s.logger.Debug("Listed resources",
		zap.Int("count", len(response.Data)),
		zap.Int("page", params.Page),
	)
	return &response, nil
}

func (s *ResourceService[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}

	var response entity.Response[T]
	if err := s.client.Get(ctx, resourcePath(s.resource, id), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", s.resource, id, err)
	}
	return &response.Data, nil
}

// Create sends payload as JSON.
func (s *ResourceService[T]) Create(ctx context.Context, payload any) (*T, error) {
	var response entity.Response[T]
	if err := s.client.Post(ctx, resourcePath(s.resource), payload, &response); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", s.resource, err)
	}

	s.logger.Info("Resource created")
	return &response.Data, nil
}

func (s *ResourceService[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}

	var response entity.Response[T]
	if err := s.client.Put(ctx, resourcePath(s.resource, id), payload, &response); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", s.resource, id, err)
	}

	s.logger.Info("Resource updated", zap.String("id", id))
	return &response.Data, nil
}

func (s *ResourceService[T]) Delete(ctx context.Context, id string) error {
	if err := requireID("id", id); err != nil {
		return err
	}

	if err := s.client.Delete(ctx, resourcePath(s.resource, id), nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.resource, id, err)
	}

	s.logger.Info("Resource deleted", zap.String("id", id))
	return nil
}

// SubResourceService is CRUD over a collection nested under a parent,
// e.g. /hospitals/{id}/contacts.
type SubResourceService[T any] struct {
	client httpclient.HTTPClient
	parent string
	child  string
	logger *zap.Logger
}

func NewSubResourceService[T any](client httpclient.HTTPClient, parent, child string, logger *zap.Logger) *SubResourceService[T] {
	return &SubResourceService[T]{
		client: client,
		parent: parent,
		child:  child,
		logger: logger.With(zap.String("resource", parent+"/"+child)),
	}
}

func (s *SubResourceService[T]) path(parentID string, childID ...string) string {
	return resourcePath(s.parent, append([]string{parentID, s.child}, childID...)...)
}

func (s *SubResourceService[T]) List(ctx context.Context, parentID string) ([]T, error) {
	if err := requireID("parent id", parentID); err != nil {
		return nil, err
	}

	var response entity.Response[[]T]
	if err := s.client.Get(ctx, s.path(parentID), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.child, err)
	}
	return response.Data, nil
}

func (s *SubResourceService[T]) Create(ctx context.Context, parentID string, payload any) (*T, error) {
	if err := requireID("parent id", parentID); err != nil {
		return nil, err
	}

	var response entity.Response[T]
	if err := s.client.Post(ctx, s.path(parentID), payload, &response); err != nil {
		return nil, fmt.Errorf("failed to add %s: %w", s.child, err)
	}

	s.logger.Info("Nested resource created", zap.String("parent_id", parentID))
	return &response.Data, nil
}

func (s *SubResourceService[T]) Update(ctx context.Context, parentID, childID string, payload any) (*T, error) {
	if err := requireID("parent id", parentID); err != nil {
		return nil, err
	}
	if err := requireID("id", childID); err != nil {
		return nil, err
	}

	var response entity.Response[T]
	if err := s.client.Put(ctx, s.path(parentID, childID), payload, &response); err != nil {
		return nil, fmt.Errorf("failed to update %s %s: %w", s.child, childID, err)
	}
	return &response.Data, nil
}

func (s *SubResourceService[T]) Delete(ctx context.Context, parentID, childID string) error {
	if err := requireID("parent id", parentID); err != nil {
		return err
	}
	if err := requireID("id", childID); err != nil {
		return err
	}

	if err := s.client.Delete(ctx, s.path(parentID, childID), nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", s.child, childID, err)
	}

	s.logger.Info("Nested resource deleted", zap.String("parent_id", parentID), zap.String("id", childID))
	return nil
}
