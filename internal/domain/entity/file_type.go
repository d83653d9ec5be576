package entity

import (
	"errors"
	"fmt"
	"strings"
)

// FileType classifies an uploaded document.
type FileType string

const (
	FileTypeAgreement   FileType = "agreement"
	FileTypeLicense     FileType = "license"
	FileTypeCertificate FileType = "certificate"
	FileTypeOther       FileType = "other"
)

// ErrInvalidFileType is returned for values outside the closed set.
var ErrInvalidFileType = errors.New("invalid file type")

func (t FileType) Valid() bool {
	switch t {
	case FileTypeAgreement, FileTypeLicense, FileTypeCertificate, FileTypeOther:
		return true
	}
	return false
}

// ParseFileType accepts any letter case.
func ParseFileType(s string) (FileType, error) {
	t := FileType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFileType, s)
	}
	return t, nil
}
