package server

// HTTP Header Constants
//
// Headers already provided by Echo (echo.HeaderContentType, echo.HeaderXRequestID, etc.)
// and the security families in package helmet should be used from those packages.

const (
	// HeaderXResponseTime is used to report request processing duration.
	// Set by the timing middleware on all responses.
	HeaderXResponseTime = "X-Response-Time"
)
