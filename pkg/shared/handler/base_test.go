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

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	e "github.com/Catter58/CTrack/pkg/tool/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performJSONResponse(ctx *Context) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	JSONResponse(c, ctx)
	return w
}

func TestJSONResponseSuccess(t *testing.T) {
	w := performJSONResponse(&Context{})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
}

func TestJSONResponseHTTPError(t *testing.T) {
	w := performJSONResponse(&Context{
		RespErr: e.ErrInvalidState.AddDesc("only a planned sprint can be started"),
	})

	assert.Equal(t, 422, w.Code)
	assert.Contains(t, w.Body.String(), "only a planned sprint can be started")
}

func TestJSONResponseOperationErrorMapsTo400(t *testing.T) {
	w := performJSONResponse(&Context{
		RespErr: e.ErrCompleteSprint.AddDesc("boom"),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "6025")
}

func TestJSONResponseUntypedErrorIs500(t *testing.T) {
	w := performJSONResponse(&Context{
		RespErr: errors.New("database on fire"),
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 404, httpStatus(404))
	assert.Equal(t, 422, httpStatus(422))
	assert.Equal(t, http.StatusBadRequest, httpStatus(6001))
	assert.Equal(t, http.StatusBadRequest, httpStatus(0))
}
