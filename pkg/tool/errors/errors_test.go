/*
Copyright 2024 The CTrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package errors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAddDescDoesNotMutateShared(t *testing.T) {
	err := ErrInvalidState.AddDesc("only an active sprint can be completed")

	assert.Equal(t, 422, err.Code())
	assert.Equal(t, "only an active sprint can be completed", err.Desc())
	assert.Empty(t, ErrInvalidState.Desc(), "shared error value must stay clean")
}

func TestAddErrCarriesCause(t *testing.T) {
	cause := errors.Wrap(errors.New("connection reset"), "list sprint issues")
	err := ErrCompleteSprint.AddErr(cause)

	assert.Equal(t, 6025, err.Code())
	assert.Equal(t, "Failed to complete sprint", err.Error())
	assert.Equal(t, "list sprint issues: connection reset", err.Desc())

	assert.Empty(t, ErrCompleteSprint.Desc())
}

func TestAddErrNilCause(t *testing.T) {
	err := ErrStartSprint.AddErr(nil)
	assert.Empty(t, err.Desc())
}

func TestTaxonomyCodes(t *testing.T) {
	tests := []struct {
		err  *HTTPError
		code int
	}{
		{ErrInvalidParam, 400},
		{ErrUnauthorized, 401},
		{ErrForbidden, 403},
		{ErrNotFound, 404},
		{ErrConflict, 409},
		{ErrInvalidState, 422},
		{ErrInternalError, 500},
	}

	for _, tt := range tests {
		var i IHTTPError = tt.err
		assert.Equal(t, tt.code, i.Code())
	}
}
