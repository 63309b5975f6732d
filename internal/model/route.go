package model

import "strings"

// APIPrefix marks paths served by the proxy rather than the file system.
const APIPrefix = "/api/"

// BodiesPath is the only proxied endpoint.
const BodiesPath = "/api/solar-system/bodies"

// RouteKind says which handler family owns a request path.
type RouteKind int

const (
	RouteStatic RouteKind = iota
	RouteAPI
)

func (k RouteKind) String() string {
	if k == RouteAPI {
		return "api"
	}
	return "static"
}

// Classify maps a request path to its handler family.
func Classify(path string) RouteKind {
	if strings.HasPrefix(path, APIPrefix) {
		return RouteAPI
	}
	return RouteStatic
}
