// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"testing"

	"github.com/sapcc/go-bits/assert"
)

func TestNullableBytes(t *testing.T) {
	// a typed nil would reach the driver as a non-nil []uint8
	if val := nullableBytes(nil); val != nil {
		t.Errorf("expected an untyped nil for a nil image, but got %#v", val)
	}
	assert.DeepEqual(t, "empty image", nullableBytes([]byte{}), any([]byte{}))
	assert.DeepEqual(t, "image", nullableBytes([]byte("abc")), any([]byte("abc")))
}
