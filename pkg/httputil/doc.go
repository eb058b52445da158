// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
// Every error body has the shape {"error": "..."}:
//
//	httputil.WriteJSON(w, http.StatusOK, data)
//	httputil.WriteBadRequest(w, "Invalid input")
//	httputil.WriteBadGateway(w, "create customer: upstream said no")
//	httputil.WriteErrorFields(w, http.StatusBadRequest, "Invalid or missing 'tier'",
//		map[string]interface{}{"allowed": tiers})
//
// # Request Parsing
//
// Bodies are optional; an empty body decodes as {}:
//
//	var req GenerateRequest
//	if !httputil.ParseJSONOrError(w, r, &req) {
//		return // Error response already written
//	}
//
// # Middleware
//
//	httputil.Chain(
//		httputil.RequestIDMiddleware(logger),
//		httputil.LoggingMiddleware,
//		httputil.RecoveryMiddleware,
//		httputil.MaxBytesMiddleware(1<<20),
//	)
//
// # Related Packages
//
//   - pkg/observability: Request-scoped loggers
package httputil
