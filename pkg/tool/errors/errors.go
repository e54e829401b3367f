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

// IHTTPError is the error surface the response writer understands.
type IHTTPError interface {
	Code() int
	Error() string
	Desc() string
}

// HTTPError carries a stable machine code and user-facing message plus an
// optional per-occurrence description.
type HTTPError struct {
	code int
	err  string
	desc string
}

func NewHTTPError(code int, errStr string, args ...string) *HTTPError {
	var desc string
	if len(args) > 0 {
		desc = args[0]
	}

	return &HTTPError{
		code: code,
		err:  errStr,
		desc: desc,
	}
}

func (e *HTTPError) Code() int {
	return e.code
}

func (e *HTTPError) Error() string {
	return e.err
}

func (e *HTTPError) Desc() string {
	return e.desc
}

// AddDesc returns a copy with the description replaced, so the shared error
// values are never mutated.
func (e *HTTPError) AddDesc(desc string) *HTTPError {
	err := *e
	err.desc = desc
	return &err
}

// AddErr attaches a cause's message as the description.
func (e *HTTPError) AddErr(cause error) *HTTPError {
	err := *e
	if cause != nil {
		err.desc = cause.Error()
	}
	return &err
}
