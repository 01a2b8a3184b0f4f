// Package api provides an HTTP client for a REST /objects collection.
//
// # Overview
//
// The client speaks to https://api.restful-api.dev by default. Objects are
// flat records with a server-assigned id, a name and an optional data
// mapping of scalar attributes:
//
//	{"id": "7", "name": "Apple MacBook Pro 16", "data": {"price": 1849.99}}
//
// # Endpoints
//
//   - GET /objects: the whole collection (no pagination)
//   - GET /objects?id=3,5: several objects in one request
//   - GET /objects/{id}
//   - POST /objects, PUT /objects/{id}, PATCH /objects/{id}
//   - DELETE /objects/{id}
//
// # Request Handling
//
// All requests use the caller's context, send Accept: application/json, a
// User-Agent and an X-Request-ID that also appears in the debug log. A
// token bucket can pace requests when RequestsPerSecond is set. There are
// no automatic retries.
//
// # Errors
//
// Every failure is an *Error carrying a Kind:
//
//   - KindConnectivity: no HTTP response (dial failure, timeout, cancel)
//   - KindNotFound: 404
//   - KindRateLimited: 405 or 429, which the demo API uses for its daily quota
//   - KindGeneric: any other non-2xx status or an undecodable body
//
// Message turns an error into the short text shown to the user.
//
// # Attributes
//
// Data is decoded into Attributes, which keeps the key order of the JSON
// document. Each Value is tagged as null, number, boolean or string; nested
// JSON is kept verbatim as a raw value.
package api
