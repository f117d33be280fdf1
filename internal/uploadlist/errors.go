// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"errors"
	"fmt"
)

// ErrEmptyBackendName is returned when a request would be stored without a backend name.
var ErrEmptyBackendName = errors.New("backend name may not be empty")

// StorageError is returned by all RequestStore methods when the database
// connection is unavailable or a statement is rejected.
type StorageError struct {
	// Op describes the failed operation, e.g. "cannot insert request".
	Op    string
	Inner error
}

// Error implements the builtin/error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Inner.Error())
}

// Unwrap implements the unnamed interface implied by package errors.
func (e *StorageError) Unwrap() error {
	return e.Inner
}

// wrapStorageError returns nil if err is nil, and a *StorageError otherwise.
func wrapStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Inner: err}
}
