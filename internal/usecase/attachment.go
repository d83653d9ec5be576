package usecase

import (
	"fmt"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/httpclient"
)

// Attachment is the file payload of a partner record: the single legacy
// agreement file, or a set of typed documents.
type Attachment interface {
	apply(fields map[string]any) error
	hasFiles() bool
}

// setField refuses to overwrite a field already set by the payload or an
// earlier attachment.
func setField(fields map[string]any, key string, value any) error {
	if _, taken := fields[key]; taken {
		return fmt.Errorf("%w: field %q is set more than once", ErrInvalidInput, key)
	}
	fields[key] = value
	return nil
}

// applyAttachments writes every attachment into fields. Document sets are
// merged in order into a single documents/fileTypes/descriptions triple.
func applyAttachments(fields map[string]any, attachments []Attachment) error {
	merged := NewDocumentSet()
	for _, a := range attachments {
		switch a := a.(type) {
		case nil:
		case *DocumentSet:
			merged.merge(a)
		default:
			if err := a.apply(fields); err != nil {
				return err
			}
		}
	}
	return merged.apply(fields)
}

// LegacyAttachment is sent as the agreementFile field.
type LegacyAttachment struct {
	File *httpclient.FileUpload
}

func (a LegacyAttachment) apply(fields map[string]any) error {
	if a.File == nil {
		return nil
	}
	return setField(fields, "agreementFile", *a.File)
}

func (a LegacyAttachment) hasFiles() bool {
	return a.File != nil
}

// DocumentSet holds files with their type and description. The three lists
// only grow together, so entry i of each always describes the same file.
type DocumentSet struct {
	files        []httpclient.FileUpload
	fileTypes    []string
	descriptions []string
}

func NewDocumentSet() *DocumentSet {
	return &DocumentSet{}
}

// Add appends one document. Invalid file types are rejected.
func (d *DocumentSet) Add(file httpclient.FileUpload, fileType entity.FileType, description string) error {
	if !fileType.Valid() {
		return fmt.Errorf("%w: %q", entity.ErrInvalidFileType, fileType)
	}
	d.files = append(d.files, file)
	d.fileTypes = append(d.fileTypes, string(fileType))
	d.descriptions = append(d.descriptions, description)
	return nil
}

func (d *DocumentSet) Len() int {
	if d == nil {
		return 0
	}
	return len(d.files)
}

func (d *DocumentSet) merge(other *DocumentSet) {
	if other.Len() == 0 {
		return
	}
	d.files = append(d.files, other.files...)
	d.fileTypes = append(d.fileTypes, other.fileTypes...)
	d.descriptions = append(d.descriptions, other.descriptions...)
}

func (d *DocumentSet) apply(fields map[string]any) error {
	if d.Len() == 0 {
		return nil
	}
	for key, value := range map[string]any{
		"documents":    d.files,
		"fileTypes":    d.fileTypes,
		"descriptions": d.descriptions,
	} {
		if err := setField(fields, key, value); err != nil {
			return err
		}
	}
	return nil
}

func (d *DocumentSet) hasFiles() bool {
	return d.Len() > 0
}
