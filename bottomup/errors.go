// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package bottomup

import "fmt"

const (
	// InternalErr represents an unrecoverable evaluation fault. The answer
	// relation is never silently truncated; faults surface as errors.
	InternalErr string = "eval_internal_error"

	// CancelErr indicates the caller cancelled the evaluation.
	CancelErr string = "eval_cancel_error"
)

// Error is the error type returned by the evaluator.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Code, e.Message)
}

// IsError returns true if the err is an Error.
func IsError(err error) bool {
	_, ok := err.(*Error)
	return ok
}

// IsCancel returns true if err was caused by cancellation.
func IsCancel(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Code == CancelErr
	}
	return false
}

func internalError(f string, a ...interface{}) *Error {
	return &Error{Code: InternalErr, Message: fmt.Sprintf(f, a...)}
}

func cancelError() *Error {
	return &Error{Code: CancelErr, Message: "caller cancelled query execution"}
}
