// Package client is the API Gateway of the tiernerd client: the only place
// that performs network I/O.
//
// # Overview
//
// Gateway is the transport contract used by the endpoint services:
// Get/Post/Put/Delete against server-relative paths, with an optional bearer
// token. HTTPClient implements it over net/http. Bodies are JSON unless they
// are a Form, which is sent as application/x-www-form-urlencoded. 2xx bodies
// are decoded as JSON; an empty body decodes to nothing and is not an error.
//
// # Error Handling
//
// Callers must tell three outcomes apart:
//
//   - *APIError: the server answered with a non-2xx status. Match with
//     errors.As and branch on Status and Detail.
//   - ErrUnavailable: the server could not be reached (DNS, refused,
//     timeout). Match with errors.Is.
//   - ErrMalformedResponse: a 2xx answer whose body is not the expected JSON.
//
// # Concurrency & Contexts
//
// HTTPClient holds no per-request state and is safe for concurrent use.
// Every call honors ctx and is additionally bounded by the configured timeout.
//
// The package also bootstraps the local SQLite database (InitDatabase,
// RunMigrations) with embedded goose migrations.
package client
