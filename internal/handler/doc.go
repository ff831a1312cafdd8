// Package handler contains HTTP handlers grouped by domain in subpackages
// (auth, user, hotel, reservation, payment, marketing).
//
// This file exists so tooling (e.g. `swag init --dir ./internal/handler`) can
// treat `internal/handler` as a valid Go package and avoid "no Go files" warnings.
package handler
