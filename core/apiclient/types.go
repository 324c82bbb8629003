// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package apiclient

import (
	"net/http"
)

// RequestOptions are parameters for a single backend request.
type RequestOptions struct {
	Method          string
	URL             string
	Token           string // backend session token, may be empty for public endpoints
	CSRF            string
	IncomingHeaders http.Header
	Payload         any
	ContentType     string
}
