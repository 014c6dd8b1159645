/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package transport

import (
	"errors"
	"fmt"
)

const (
	// GenericErrorMessage is shown when neither the backend nor the transport gave a usable reason
	GenericErrorMessage = "Network error. Please try again."
	// AuthRequiredMessage is shown when a call needs a credential and none is available
	AuthRequiredMessage = "Authentication required. Please log in."
	// CancelledMessage is shown when the caller abandoned the request
	CancelledMessage = "Request cancelled."
)

// ErrAuthRequired matches every *AuthRequiredError through errors.Is.
var ErrAuthRequired = errors.New("authentication required")

// ValidationError is a local precondition failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// AuthRequiredError means there is no usable credential. Status is 0 when the
// check failed locally and 401 when the backend rejected the token.
type AuthRequiredError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthRequiredError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = AuthRequiredMessage
	}
	if e.Status != 0 {
		return fmt.Sprintf("authentication required (status %d): %s", e.Status, msg)
	}
	return fmt.Sprintf("authentication required: %s", msg)
}

func (e *AuthRequiredError) Is(target error) bool {
	return target == ErrAuthRequired
}

func (e *AuthRequiredError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response. Message is the backend's reason when it sent one.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NetworkError means the request did not produce a response (timeout, connection failure).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CancelledError means the caller's context ended before a response was used.
type CancelledError struct {
	Op  string
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s: cancelled: %v", e.Op, e.Err)
}

func (e *CancelledError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a user-initiated retry makes sense.
// Only transport failures qualify; financial calls are never retried automatically.
func IsRetryable(err error) bool {
	var networkErr *NetworkError
	return errors.As(err, &networkErr)
}

// UserMessage returns display text for any error produced by this package
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	var authErr *AuthRequiredError
	var apiErr *APIError
	var cancelledErr *CancelledError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Message
	case errors.As(err, &authErr):
		if authErr.Message != "" {
			return authErr.Message
		}
		return AuthRequiredMessage
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return GenericErrorMessage
	case errors.As(err, &cancelledErr):
		return CancelledMessage
	default:
		return GenericErrorMessage
	}
}
