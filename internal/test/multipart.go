// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"bytes"
	"mime/multipart"

	"github.com/sapcc/go-bits/assert"
	"github.com/sapcc/go-bits/must"
)

// MultipartPart is one part of a request body built by MultipartBody().
// If FileName is empty, the part is a plain form value.
type MultipartPart struct {
	FieldName string
	FileName  string
	Contents  []byte
}

// MultipartBody encodes the given parts as multipart/form-data. It returns the
// request body and the corresponding request headers.
func MultipartBody(parts ...MultipartPart) (assert.ByteData, map[string]string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, part := range parts {
		if part.FileName == "" {
			must.Succeed(mw.WriteField(part.FieldName, string(part.Contents)))
			continue
		}
		fw := must.Return(mw.CreateFormFile(part.FieldName, part.FileName))
		must.Return(fw.Write(part.Contents))
	}
	must.Succeed(mw.Close())
	return assert.ByteData(buf.Bytes()), map[string]string{"Content-Type": mw.FormDataContentType()}
}

// ImageUpload is a shorthand for a MultipartBody() with a single file in the
// "image" field.
func ImageUpload(contents []byte) (assert.ByteData, map[string]string) {
	return MultipartBody(MultipartPart{FieldName: "image", FileName: "upload.bin", Contents: contents})
}
