package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/httpclient"
)

// DocumentResourceService serves hospitals, doctors and principles: records
// that carry attachments, contacts and documents.
type DocumentResourceService[T any] struct {
	*ResourceService[T]
	Contacts  *SubResourceService[entity.Contact]
	Documents *DocumentsService
}

func NewDocumentResourceService[T any](client httpclient.HTTPClient, resource string, logger *zap.Logger) *DocumentResourceService[T] {
	return &DocumentResourceService[T]{
		ResourceService: NewResourceService[T](client, resource, logger),
		Contacts:        NewSubResourceService[entity.Contact](client, resource, "contacts", logger),
		Documents:       NewDocumentsService(client, resource, logger),
	}
}

// CreateWithAttachments sends payload as JSON, or the whole record as
// multipart when any attachment carries a file.
func (s *DocumentResourceService[T]) CreateWithAttachments(ctx context.Context, payload any, progress httpclient.ProgressFunc, attachments ...Attachment) (*T, error) {
	return s.save(ctx, http.MethodPost, resourcePath(s.resource), payload, progress, attachments)
}

func (s *DocumentResourceService[T]) UpdateWithAttachments(ctx context.Context, id string, payload any, progress httpclient.ProgressFunc, attachments ...Attachment) (*T, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return s.save(ctx, http.MethodPut, resourcePath(s.resource, id), payload, progress, attachments)
}

func (s *DocumentResourceService[T]) save(ctx context.Context, method, path string, payload any, progress httpclient.ProgressFunc, attachments []Attachment) (*T, error) {
	var response entity.Response[T]

	withFiles := lo.SomeBy(attachments, func(a Attachment) bool { return a != nil && a.hasFiles() })
	if !withFiles {
		var err error
		if method == http.MethodPut {
			err = s.client.Put(ctx, path, payload, &response)
		} else {
			err = s.client.Post(ctx, path, payload, &response)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save %s: %w", s.resource, err)
		}
		return &response.Data, nil
	}

	fields, err := toFields(payload)
	if err != nil {
		return nil, err
	}
	if err := applyAttachments(fields, attachments); err != nil {
		return nil, err
	}

	form, err := httpclient.NewFormFromFields(fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Saving record with attachments", zap.String("method", method), zap.String("path", path))

	err = s.client.Upload(ctx, httpclient.UploadRequest{
		Method:   method,
		Path:     path,
		Form:     form,
		Progress: progress,
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", s.resource, err)
	}
	return &response.Data, nil
}

// toFields flattens a payload into form fields. Numbers keep their JSON text.
func toFields(payload any) (map[string]any, error) {
	fields := map[string]any{}
	if payload == nil {
		return fields, nil
	}
	if m, ok := payload.(map[string]any); ok {
		for k, v := range m {
			fields[k] = v
		}
		return fields, nil
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: payload must be an object: %v", ErrInvalidInput, err)
	}
	return fields, nil
}

// DocumentsService manages /{resource}/{id}/documents.
type DocumentsService struct {
	client httpclient.HTTPClient
	parent string
	logger *zap.Logger
}

func NewDocumentsService(client httpclient.HTTPClient, parent string, logger *zap.Logger) *DocumentsService {
	return &DocumentsService{
		client: client,
		parent: parent,
		logger: logger.With(zap.String("resource", parent+"/documents")),
	}
}

func (s *DocumentsService) path(parentID string, docID ...string) string {
	return resourcePath(s.parent, append([]string{parentID, "documents"}, docID...)...)
}

func (s *DocumentsService) List(ctx context.Context, parentID string) ([]entity.StoredDocument, error) {
	if err := requireID("parent id", parentID); err != nil {
		return nil, err
	}

	var response entity.Response[[]entity.StoredDocument]
	if err := s.client.Get(ctx, s.path(parentID), nil, &response); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return response.Data, nil
}

// Upload adds every document in set to the parent record.
func (s *DocumentsService) Upload(ctx context.Context, parentID string, set *DocumentSet, progress httpclient.ProgressFunc) ([]entity.StoredDocument, error) {
	if err := requireID("parent id", parentID); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("%w: no documents to upload", ErrInvalidInput)
	}

	fields := map[string]any{}
	if err := set.apply(fields); err != nil {
		return nil, err
	}
	form, err := httpclient.NewFormFromFields(fields)
	if err != nil {
		return nil, err
	}

	var response entity.Response[[]entity.StoredDocument]
	err = s.client.Upload(ctx, httpclient.UploadRequest{
		Method:   http.MethodPost,
		Path:     s.path(parentID),
		Form:     form,
		Progress: progress,
	}, &response)
	if err != nil {
		return nil, fmt.Errorf("failed to upload documents: %w", err)
	}

	s.logger.Info("Documents uploaded", zap.String("parent_id", parentID), zap.Int("count", set.Len()))
	return response.Data, nil
}

// Update changes the metadata of a stored document.
func (s *DocumentsService) Update(ctx context.Context, parentID, docID string, fileType entity.FileType, description string) (*entity.StoredDocument, error) {
	if err := requireID("parent id", parentID); err != nil {
		return nil, err
	}
	if err := requireID("document id", docID); err != nil {
		return nil, err
	}
	if !fileType.Valid() {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidFileType, fileType)
	}

	body := map[string]string{
		"fileType":    string(fileType),
		"description": description,
	}

	var response entity.Response[entity.StoredDocument]
	if err := s.client.Put(ctx, s.path(parentID, docID), body, &response); err != nil {
		return nil, fmt.Errorf("failed to update document %s: %w", docID, err)
	}
	return &response.Data, nil
}

func (s *DocumentsService) Delete(ctx context.Context, parentID, docID string) error {
	if err := requireID("parent id", parentID); err != nil {
		return err
	}
	if err := requireID("document id", docID); err != nil {
		return err
	}

	if err := s.client.Delete(ctx, s.path(parentID, docID), nil); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", docID, err)
	}

	s.logger.Info("Document deleted", zap.String("parent_id", parentID), zap.String("id", docID))
	return nil
}
