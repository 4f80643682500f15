// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmunteanu/primaria/internal/platform/apperr"
	"github.com/dmunteanu/primaria/internal/platform/ctxutil"
	"github.com/dmunteanu/primaria/internal/platform/sec"
	"github.com/dmunteanu/primaria/internal/platform/upload"
	"github.com/dmunteanu/primaria/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
NumericID parses a named URL parameter as a positive int64 identifier.

Returns:
  - int64: The parsed identifier
  - error: apperr.ValidationError for non-numeric or non-positive values
*/
func NumericID(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("Invalid identifier", apperr.FieldError{
			Field:   name,
			Message: "Must be a positive integer",
		})
	}

	return id, nil
}

/*
Principal extracts the authenticated staff principal from the request context.

Returns nil if the request is not authenticated.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated staff identity
  - error: apperr.NotLoggedIn if the request is not authenticated
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	// Get the principal placed in context by the session middleware
	principal := ctxutil.GetPrincipal(request.Context())

	// If the request is not authenticated, return an error
	if principal == nil {
		return nil, apperr.NotLoggedIn()
	}

	return principal, nil
}

/*
File extracts an optional multipart file field.

Description: A field the client simply did not send is not an error; it comes
back as an absent [upload.Attachment]. Anything else wrong with the part maps
to the UPLOAD_TRANSPORT taxonomy code.

Parameters:
  - request: *http.Request (multipart form already parsed or parseable)
  - field: Form field name

Returns:
  - upload.Attachment: The file, or a zero value when the field is absent
  - error: apperr UPLOAD_TRANSPORT failures
*/
func File(request *http.Request, field string) (upload.Attachment, error) {
	file, header, err := request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return upload.Attachment{}, nil
		}
		return upload.Attachment{}, apperr.UploadFailure("UPLOAD_TRANSPORT", "Malformed file upload")
	}

	return upload.Attachment{File: file, Header: header}, nil
}

// RealIP extracts the client IP, respecting common proxy headers.
//
// The same resolution is used by the session fingerprint check, the rate
// limiter, and the audit trail so they always agree on the client address.
func RealIP(request *http.Request) string {

	// Check standard proxy headers first
	if ip := request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	// Fallback to the direct connection's address
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
