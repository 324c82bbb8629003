// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

// UnauthorizedError is a rich error type used to signal that a user must be
// authenticated to proceed.
//
// The error handling middleware is expected to catch this error, set the HTTP
// status to 401 Unauthorized, and render the appropriate login prompt page.
type UnauthorizedError struct {
	// ReturnPath is where the user lands after completing the login flow.
	ReturnPath string
}

// Error implements the error interface. The message is simple, as the primary
// purpose of this type is to carry structured data to the error handler.
func (e *UnauthorizedError) Error() string {
	return "unauthorized"
}

// NewUnauthorizedError creates an UnauthorizedError.
//
// Route handlers should return this error if a request lacks the backend
// session token required for an action. The error handling middleware will
// then render the login prompt.
func NewUnauthorizedError(returnPath string) error {
	return &UnauthorizedError{
		ReturnPath: returnPath,
	}
}
