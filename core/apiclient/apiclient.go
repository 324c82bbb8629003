// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package apiclient talks to the reservation backend.

All JSON endpoints answer with the same envelope:

	{"success": true, "data": {...}}
	{"success": false, "error": "message"}

The helpers here unwrap that envelope and hand callers the raw bytes of the
data payload, which are then picked apart with gjson at the call site.
Successful GET responses may be cached, see caching.go.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/evanmaskanazi/datinglanguage/config"
	"github.com/evanmaskanazi/datinglanguage/core/audit"
	"github.com/evanmaskanazi/datinglanguage/core/idgen"
	"github.com/evanmaskanazi/datinglanguage/server/request_context"
	"github.com/evanmaskanazi/datinglanguage/server/utils"
)

// backendSessionCookie is the cookie name the reservation backend expects.
const backendSessionCookie = "session"

var (
	errInvalidJSON            = errors.New("response contained invalid JSON")
	errAPIResponseError       = errors.New("API response indicated error")
	errMissingCSRF            = errors.New("CSRF token is required for POST requests")
	errUnsupportedPayloadType = errors.New("unsupported payload type")
)

// APIError represents an error returned from the reservation backend or
// internal request handling.
type APIError struct {
	// StatusCode is the HTTP status code from the response.
	// Always >= 400 for API errors.
	StatusCode int

	// Message contains the error message from the API response.
	// Empty for internal request errors, populated for API errors.
	Message string

	// Err is the underlying error cause.
	// Set to errAPIResponseError for API errors, or the original error for internal failures.
	Err error
}

// Error returns a formatted error message including the status code and API message if available.
func (e *APIError) Error() string {
	var b strings.Builder

	b.WriteString(e.Err.Error())

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}

	b.WriteString(fmt.Sprintf(" (status code: %d)", e.StatusCode))

	return b.String()
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Endpoint joins path onto the configured backend base URL.
func Endpoint(path string) string {
	return strings.TrimSuffix(config.Global.Backend.BaseURL, "/") + path
}

// GetJSONData makes a GET request and extracts the JSON payload from the response.
//
// For standard API responses, it returns the content of the `data` field. For
// JSON responses that carry neither `success` nor `data` (health checks and
// the like), it returns the entire response as the payload.
//
// Returns an error if:
//   - The request fails
//   - The response contains invalid JSON
//   - The "success" field is a boolean false
func GetJSONData(
	ctx context.Context,
	url string,
	token string,
	incomingHeaders http.Header,
) ([]byte, error) {
	respBody, err := do(ctx, RequestOptions{
		Method:          http.MethodGet,
		URL:             url,
		Token:           token,
		IncomingHeaders: incomingHeaders,
	})
	if err != nil {
		return nil, err
	}

	return processJSONResponse(respBody)
}

// PostJSONData performs a POST request and extracts the JSON payload from the
// response. It handles API-level errors where the HTTP status is 200 OK but
// the JSON payload contains `{"success": false}`.
func PostJSONData(
	ctx context.Context,
	url string,
	payload any,
	token string,
	csrf string,
	incomingHeaders http.Header,
) ([]byte, error) {
	// Mutating backend calls are rejected without a CSRF token.
	if csrf == "" {
		return nil, errMissingCSRF
	}

	respBody, err := do(ctx, RequestOptions{
		Method:          http.MethodPost,
		URL:             url,
		Payload:         payload,
		Token:           token,
		CSRF:            csrf,
		ContentType:     "application/json",
		IncomingHeaders: incomingHeaders,
	})
	if err != nil {
		return nil, err
	}

	return processJSONResponse(respBody)
}

// GetMany fetches several endpoints concurrently and returns the payloads in
// input order. The first error cancels the remaining requests.
func GetMany(
	ctx context.Context,
	urls []string,
	token string,
	incomingHeaders http.Header,
) ([][]byte, error) {
	results := make([][]byte, len(urls))

	group, groupCtx := errgroup.WithContext(ctx)

	for i, url := range urls {
		group.Go(func() error {
			data, err := GetJSONData(groupCtx, url, token, incomingHeaders)
			if err != nil {
				return err
			}

			results[i] = data

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Do sends an HTTP request and returns the raw *http.Response and the response
// body as a byte slice.
//
// This function handles the full lifecycle of a backend request, including
// caching and logging. The `Body` field of the returned `*http.Response` is a
// `NopCloser` over these same bytes for convenience, but callers should prefer
// using the byte slice directly.
//
// This function does not check for non-OK status codes, leaving that task to the caller.
func Do(ctx context.Context, opts RequestOptions) (*http.Response, []byte, error) {
	// Every backend call is bounded by the configured timeout so a stalled
	// backend cannot hold a front-end request open indefinitely.
	if timeout := config.Global.Backend.Timeout; timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// For GET requests, determine cache policy and check for a cached response.
	var policy cachePolicy
	if opts.Method == http.MethodGet {
		policy = determineCachePolicy(opts.URL, opts.Token, opts.IncomingHeaders)
		if policy.cachedBody != nil {
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(bytes.NewReader(policy.cachedBody)),
			}, policy.cachedBody, nil
		}
	}

	req, err := newRequest(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	resp, bodyBytes, err := sendRequest(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	// Cache the response if it's a successful GET request and the policy allows it.
	// The policy was determined before the request was made.
	if opts.Method == http.MethodGet && resp.StatusCode == http.StatusOK && policy.shouldStore {
		storeResponse(opts.URL, opts.Token, bodyBytes)
	}

	return resp, bodyBytes, nil
}

// do performs a request using the given options, receives the already-read
// response body, and handles standard API error responses.
// It returns the raw body on success.
func do(ctx context.Context, opts RequestOptions) ([]byte, error) {
	resp, body, err := Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		// Attempt to extract an error message from the JSON body.
		message := gjson.GetBytes(body, "error").String()

		// Fall back to the HTTP status text if no JSON message is found.
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}

		// As a final fallback for unknown status codes, use a generic error message.
		if message == "" {
			message = "An unknown API error occurred"
		}

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Err:        errAPIResponseError,
		}
	}

	return body, nil
}

// processJSONResponse parses a raw JSON envelope from the reservation backend.
//
// For standard API responses, it returns the content of the `data` field. For
// JSON responses that carry neither `success` nor `data`, it gracefully
// returns the entire response as the payload.
//
// It returns an error if the JSON is invalid or if the payload contains
// `"success": false`.
func processJSONResponse(respBody []byte) ([]byte, error) {
	if !gjson.ValidBytes(respBody) {
		return nil, fmt.Errorf("%w: %s", errInvalidJSON, string(respBody))
	}

	result := gjson.ParseBytes(respBody)

	success := result.Get("success")
	if success.Exists() && !success.Bool() {
		message := result.Get("error").String()
		if message == "" {
			message = "API response contained an error with no message"
		}

		return nil, fmt.Errorf("%w: %s", errAPIResponseError, message)
	}

	data := result.Get("data")

	if !data.Exists() {
		// If the "data" field does not exist and success was not false,
		// assume the entire response is the payload. This handles endpoints
		// like /api/health that have a different structure.
		return respBody, nil
	}

	return []byte(data.Raw), nil
}

// newRequest constructs an *http.Request from RequestOptions.
func newRequest(ctx context.Context, opts RequestOptions) (*http.Request, error) {
	var (
		reqBody           io.Reader
		contentTypeHeader string
	)

	if opts.Method == http.MethodPost {
		switch v := opts.Payload.(type) {
		case nil:
			// POST with an empty body is fine, e.g. cancellation endpoints.
		case string:
			reqBody = bytes.NewBufferString(v)
			contentTypeHeader = opts.ContentType
		case []byte:
			reqBody = bytes.NewReader(v)
			contentTypeHeader = opts.ContentType
		case map[string]string, map[string]any:
			encoded, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode payload: %w", err)
			}

			reqBody = bytes.NewReader(encoded)
			contentTypeHeader = "application/json"
		default:
			return nil, errUnsupportedPayloadType
		}
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if lang := opts.IncomingHeaders.Get("Accept-Language"); lang != "" {
		req.Header.Set("Accept-Language", lang)
	}

	if opts.Token != "" {
		req.AddCookie(&http.Cookie{Name: backendSessionCookie, Value: opts.Token})
	}

	if opts.Method == http.MethodPost {
		req.Header.Set("X-CSRFToken", opts.CSRF)

		if contentTypeHeader != "" {
			req.Header.Set("Content-Type", contentTypeHeader)
		}
	}

	return req, nil
}

// sendRequest executes the HTTP request, reads the body for auditing, and
// returns the response with a new, readable body stream, along with the raw
// body bytes.
func sendRequest(
	ctx context.Context,
	req *http.Request,
) (_ *http.Response, _ []byte, err error) {
	span := audit.Span{
		Destination: audit.ToBackend,
		RequestID:   request_context.FromContext(ctx).RequestID + "-" + idgen.Make(),
		Method:      req.Method,
		URL:         req.URL.String(),
	}

	defer func() { span.Error = err }()

	_ = span.Begin(ctx)
	defer span.End() // in case of error

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	span.BodySize = len(body)

	span.End()
	span.Log()

	// Replace the consumed body with a new reader so the caller can still read it.
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, body, nil
}

// IsContextCanceled reports whether err stems from a canceled context.
// Routes use this to suppress error pages for requests the client abandoned.
func IsContextCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
