package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
)

// FileUpload is one binary part of a multipart body.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     []byte
}

type formPart struct {
	name  string
	value string
	file  *FileUpload
}

// Form is a multipart body whose parts are written in the order added.
type Form struct {
	parts []formPart
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

func (f *Form) AddFile(name string, file FileUpload) *Form {
	f.parts = append(f.parts, formPart{name: name, file: &file})
	return f
}

// HasFiles reports whether any binary part was added.
func (f *Form) HasFiles() bool {
	return lo.ContainsBy(f.parts, func(p formPart) bool { return p.file != nil })
}

// Values returns every text value added under name, in order.
func (f *Form) Values(name string) []string {
	return lo.FilterMap(f.parts, func(p formPart, _ int) (string, bool) {
		return p.value, p.file == nil && p.name == name
	})
}

// Files returns every file added under name, in order.
func (f *Form) Files(name string) []FileUpload {
	return lo.FilterMap(f.parts, func(p formPart, _ int) (FileUpload, bool) {
		if p.file == nil || p.name != name {
			return FileUpload{}, false
		}
		return *p.file, true
	})
}

// repeatedFields are sent as one part per element instead of a joined list.
var repeatedFields = map[string]bool{
	"fileTypes":    true,
	"descriptions": true,
}

// NewFormFromFields converts a field map into a form. Keys are visited in
// sorted order. nil values are skipped; FileUpload values become binary
// parts; slices of files add one part per file; fileTypes and descriptions
// add one part per element; other slices are joined with ","; maps and
// structs (and lists of them) are JSON-encoded; anything else is formatted with fmt.
func NewFormFromFields(fields map[string]any) (*Form, error) {
	form := NewForm()

	keys := lo.Keys(fields)
	sort.Strings(keys)

	for _, key := range keys {
		if err := form.appendValue(key, fields[key]); err != nil {
			return nil, err
		}
	}
	return form, nil
}

func (f *Form) appendValue(key string, value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case FileUpload:
		f.AddFile(key, v)
		return nil
	case *FileUpload:
		if v != nil {
			f.AddFile(key, *v)
		}
		return nil
	case []FileUpload:
		for _, file := range v {
			f.AddFile(key, file)
		}
		return nil
	case string:
		f.AddField(key, v)
		return nil
	case []byte:
		f.AddField(key, string(v))
		return nil
	case time.Time:
		f.AddField(key, v.Format(time.RFC3339))
		return nil
	case json.RawMessage:
		f.AddField(key, string(v))
		return nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return f.appendValue(key, rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return f.appendSlice(key, items)

	case reflect.Map, reflect.Struct:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", key, err)
		}
		f.AddField(key, string(encoded))
		return nil

	default:
		f.AddField(key, fmt.Sprint(value))
		return nil
	}
}

func (f *Form) appendSlice(key string, items []any) error {
	files := lo.Filter(items, func(item any, _ int) bool {
		switch item.(type) {
		case FileUpload, *FileUpload:
			return true
		}
		return false
	})
	if len(files) > 0 || repeatedFields[key] {
		for _, item := range items {
			if err := f.appendValue(key, item); err != nil {
				return err
			}
		}
		return nil
	}

	// lists of objects travel as one JSON value
	if lo.SomeBy(items, isObject) {
		encoded, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("failed to encode field %s: %w", key, err)
		}
		f.AddField(key, string(encoded))
		return nil
	}

	values := lo.FilterMap(items, func(item any, _ int) (string, bool) {
		if item == nil {
			return "", false
		}
		return fmt.Sprint(item), true
	})
	f.AddField(key, strings.Join(values, ","))
	return nil
}

func isObject(item any) bool {
	if item == nil {
		return false
	}
	if _, ok := item.(time.Time); ok {
		return false
	}
	kind := reflect.Indirect(reflect.ValueOf(item)).Kind()
	return kind == reflect.Map || kind == reflect.Struct
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encode writes the whole body up front so it can be replayed and its
// length is known for progress reporting.
func (f *Form) encode() (body []byte, contentType string, summary []byte, err error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if p.file == nil {
			if err := writer.WriteField(p.name, p.value); err != nil {
				return nil, "", nil, fmt.Errorf("failed to write field %s: %w", p.name, err)
			}
			continue
		}

		fileType := p.file.ContentType
		if fileType == "" {
			fileType = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(p.name), quoteEscaper.Replace(p.file.Filename)))
		header.Set("Content-Type", fileType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", nil, fmt.Errorf("failed to create form file %s: %w", p.name, err)
		}
		if _, err := part.Write(p.file.Content); err != nil {
			return nil, "", nil, fmt.Errorf("failed to write file content %s: %w", p.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return buf.Bytes(), writer.FormDataContentType(), f.summary(), nil
}

// summary describes the form for logs without file contents.
func (f *Form) summary() []byte {
	var fieldKeys, fileKeys []string
	for _, p := range f.parts {
		if p.file == nil {
			fieldKeys = append(fieldKeys, p.name)
			continue
		}
		fileKeys = append(fileKeys, fmt.Sprintf("%s(%s, %d bytes)", p.name, p.file.Filename, len(p.file.Content)))
	}

	var sb strings.Builder
	sb.WriteString("{fields: [")
	sb.WriteString(strings.Join(lo.Uniq(fieldKeys), ", "))
	sb.WriteString("], files: [")
	sb.WriteString(strings.Join(fileKeys, ", "))
	sb.WriteString("]}")
	return []byte(sb.String())
}
