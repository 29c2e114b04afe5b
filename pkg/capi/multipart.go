package capi

import "io"

// MultipartPart is one part of a multipart/form-data body. A part with a
// FileName is sent as a file; otherwise it is a plain form field.
type MultipartPart struct {
	Name        string
	FileName    string
	ContentType string
	Content     io.Reader
}

// MultipartBody is an ordered list of parts. Parts are written in order so
// that the wire output is deterministic.
type MultipartBody struct {
	Parts []MultipartPart
}

// Field appends a form field.
func (b *MultipartBody) Field(name string, content io.Reader) *MultipartBody {
	b.Parts = append(b.Parts, MultipartPart{Name: name, Content: content})

	return b
}

// File appends a file part.
func (b *MultipartBody) File(name, fileName, contentType string, content io.Reader) *MultipartBody {
	b.Parts = append(b.Parts, MultipartPart{
		Name:        name,
		FileName:    fileName,
		ContentType: contentType,
		Content:     content,
	})

	return b
}
