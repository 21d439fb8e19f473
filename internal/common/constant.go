// Package common contains shared constants and sentinel errors used across
// gophblog components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the authorization scheme accepted by the API.
	BearerScheme = "Bearer"
)
