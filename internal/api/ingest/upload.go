// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/uploadlist/internal/api/middleware"
	"github.com/sapcc/uploadlist/internal/models"
	"github.com/sapcc/uploadlist/internal/uploadlist"
)

// ImageFieldName is the preferred multipart field for the uploaded file.
const ImageFieldName = "image"

// form parts up to this size are kept in memory, larger parts are buffered on disk
const maxMemoryForMultipart = 32 << 20

// UploadResponse is the response body of a successful upload.
type UploadResponse struct {
	Backend       string                 `json:"backend"`
	Rows          []models.StoredRequest `json:"rows"`
	UploadedImage *string                `json:"uploadedImage"`
}

// ErrorResponse is the response body of a failed upload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (a *API) handlePostUpload(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/upload")

	image, err := readImage(r)
	if err != nil {
		var mbErr *http.MaxBytesError
		if errors.As(err, &mbErr) {
			middleware.RespondWithBodyTooLarge(w, mbErr.Limit)
			return
		}
		respondwith.JSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid upload",
			Details: err.Error(),
		})
		return
	}
	if image != nil {
		logg.Debug("received upload of %s (%s)", humanize.IBytes(uint64(len(image))), mimetype.Detect(image).String())
	}

	err = a.store.Insert(r.Context(), a.backendName, models.NewRequestMeta(image), image)
	if err != nil {
		respondWithStorageError(w, err)
		return
	}
	// the insert is not rolled back if this fails
	rows, err := a.store.ListRecent(r.Context(), uploadlist.RecentRequestsLimit)
	if err != nil {
		respondWithStorageError(w, err)
		return
	}

	resp := UploadResponse{
		Backend: a.backendName,
		Rows:    rows,
	}
	if image != nil {
		encoded := base64.StdEncoding.EncodeToString(image)
		resp.UploadedImage = &encoded
	}
	respondwith.JSON(w, http.StatusOK, resp)
}

func respondWithStorageError(w http.ResponseWriter, err error) {
	logg.Error("upload failed: %s", err.Error())
	respondwith.JSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Database not responding",
		Details: err.Error(),
	})
}

// readImage extracts the uploaded file from the request body. It returns
// (nil, nil) if the request does not carry a file. The field "image" is
// preferred, otherwise the first file part of any name is taken. All other
// form fields are ignored.
func readImage(r *http.Request) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		// no multipart body means no file, but the body still needs to be
		// consumed to enforce the size limit
		_, err := io.Copy(io.Discard, r.Body)
		return nil, err
	}

	err = r.ParseMultipartForm(maxMemoryForMultipart)
	if err != nil {
		return nil, fmt.Errorf("cannot parse multipart form: %w", err)
	}
	defer func() {
		err := r.MultipartForm.RemoveAll()
		if err != nil {
			logg.Error("cannot remove temporary files for multipart form: %s", err.Error())
		}
	}()

	fileHeader := pickFile(r.MultipartForm)
	if fileHeader == nil {
		return nil, nil
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("cannot open uploaded file %q: %w", fileHeader.Filename, err)
	}
	defer f.Close()

	image, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read uploaded file %q: %w", fileHeader.Filename, err)
	}
	if image == nil {
		image = []byte{}
	}
	return image, nil
}

func pickFile(form *multipart.Form) *multipart.FileHeader {
	if form == nil || len(form.File) == 0 {
		return nil
	}
	if files := form.File[ImageFieldName]; len(files) > 0 {
		return files[0]
	}
	// map iteration order is random, so pick the lexicographically first field
	// to stay deterministic
	var (
		bestField string
		best      *multipart.FileHeader
	)
	for field, files := range form.File {
		if len(files) > 0 && (best == nil || field < bestField) {
			bestField, best = field, files[0]
		}
	}
	return best
}
