// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/rs/cors"
)

// LimitRequestBody is a middleware that rejects requests whose declared
// Content-Length exceeds the limit before they reach any handler. Requests
// without a declared length get their body wrapped in http.MaxBytesReader, so
// that reading past the limit fails and the handler can render a 413 response.
func LimitRequestBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				RespondWithBodyTooLarge(w, maxBytes)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithBodyTooLarge renders the 413 response for oversized request bodies.
func RespondWithBodyTooLarge(w http.ResponseWriter, maxBytes int64) {
	msg := fmt.Sprintf("request body too large (limit is %s)", humanize.IBytes(uint64(maxBytes))) //nolint:gosec // maxBytes is a positive constant
	http.Error(w, msg, http.StatusRequestEntityTooLarge)
}

// AnswerOptionsRequests is a middleware that answers every OPTIONS request
// with an empty 200 response. It must be placed inside the CORS middleware, so
// that preflight responses still carry the CORS headers.
func AnswerOptionsRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const (
	allowedMethods = "GET, POST, OPTIONS"
	allowedHeaders = "Content-Type"
)

// CORS returns the CORS middleware for the given allowed origins.
//
// With the wildcard origin "*", every response carries the allow headers,
// even when the request does not have an Origin header. Otherwise, rs/cors
// only answers requests from the listed origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:       allowedOrigins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:       []string{allowedHeaders},
		OptionsPassthrough:   true,
		OptionsSuccessStatus: http.StatusOK,
	})
	if !slices.Contains(allowedOrigins, "*") {
		return c.Handler
	}

	return func(next http.Handler) http.Handler {
		inner := c.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", allowedMethods)
			h.Set("Access-Control-Allow-Headers", allowedHeaders)
			inner.ServeHTTP(w, r)
		})
	}
}
