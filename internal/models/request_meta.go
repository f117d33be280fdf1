// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// RequestMeta appears in type StoredRequest. It is stored in the `meta` column
// as a JSON object.
type RequestMeta struct {
	Uploaded bool `json:"uploaded"`
}

// NewRequestMeta builds the metadata for a request that carried the given
// image payload (or no payload if nil).
func NewRequestMeta(image []byte) RequestMeta {
	return RequestMeta{Uploaded: image != nil}
}

// Scan implements the sql.Scanner interface.
func (m *RequestMeta) Scan(src any) error {
	var in []byte
	switch src := src.(type) {
	case []byte:
		in = src
	case string:
		in = []byte(src)
	default:
		return fmt.Errorf("cannot deserialize %T into %T", src, m)
	}

	// decode into a loose map first, so that missing or mistyped keys are
	// reported instead of silently defaulting to false
	var fields map[string]json.RawMessage
	err := json.Unmarshal(in, &fields)
	if err != nil {
		return fmt.Errorf("cannot deserialize into RequestMeta: %w", err)
	}
	raw, exists := fields["uploaded"]
	if !exists {
		return errors.New(`cannot deserialize into RequestMeta: missing key "uploaded"`)
	}
	var uploaded bool
	err = json.Unmarshal(raw, &uploaded)
	if err != nil {
		return fmt.Errorf(`cannot deserialize into RequestMeta: key "uploaded" is not a boolean: %w`, err)
	}

	*m = RequestMeta{Uploaded: uploaded}
	return nil
}

// Value implements the driver.Valuer interface.
func (m RequestMeta) Value() (driver.Value, error) {
	buf, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}
