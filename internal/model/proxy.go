// Package model defines shared types for the server.
package model

import (
	"net/http"
)

// FetchErrorMessage is the fixed "error" value of every proxy failure envelope.
const FetchErrorMessage = "Failed to fetch solar system data"

// UpstreamResponse is a fully read upstream reply, relayed to the client verbatim.
type UpstreamResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// ErrorEnvelope is the JSON body returned when the upstream call fails.
type ErrorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
