// Package handler provides HTTP request handlers for the travel planner API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/BMTushyath/smart-travel-planner/internal/api/middleware"
)

// maxBodyBytes limits request body size to prevent abuse.
const maxBodyBytes = 1 << 20 // 1 MiB

// userID retrieves the authenticated user ID from the request context.
func userID(r *http.Request) string {
	return middleware.GetUserID(r.Context())
}

// decodeJSON decodes a JSON request body into dst, enforcing a body size
// limit and rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
