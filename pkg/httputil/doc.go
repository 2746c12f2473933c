// Package httputil provides HTTP helpers for the depsort API server.
//
// # Overview
//
//   - [WriteJSON] and [WriteError]: JSON responses, with coded errors mapped
//     to HTTP status codes
//   - [RequestID]: middleware assigning every request a UUID, echoed in the
//     X-Request-ID response header
//   - [ReadBody]: size-limited request body reading
//
// Error responses have the shape
//
//	{"error": "cannot order deps.json", "code": "CYCLIC_DEPENDENCY", "cycles": [["a", "b"]]}
//
// where cycles is present only for cyclic documents.
package httputil
