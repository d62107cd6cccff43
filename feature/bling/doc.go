// Package bling is the client of the Bling ERP v3 REST API.
//
// Every call waits on a courtesy rate limiter, carries a bearer token from a
// TokenSource and decodes the {"data": ...} envelope into the resource DTOs,
// whose money fields are decimals. Throttling answers (HTTP 429 or the ERP's
// request limit message) surface as walker.ErrRateLimited so the page walker
// backs off and retries; any other error answer is an *APIError.
//
// TokenProvider implements the OAuth authorization code flow on top of
// golang.org/x/oauth2, persisting the code and tokens in the auth_constants
// table.
package bling
