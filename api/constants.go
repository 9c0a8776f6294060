package api

const (
	// DefaultFilePermissions for temp directory creation
	DefaultFilePermissions = 0755

	// MaxErrorDetailLength truncates engine output echoed to clients
	MaxErrorDetailLength = 200

	// multipartSlack allows for form fields and boundaries on top of the file limit
	multipartSlack = 1 << 20

	// WarningsHeader carries JSON-encoded page order warnings
	WarningsHeader = "X-Page-Spec-Warnings"

	// WarningsTotalHeader carries the number of warnings before the cap
	WarningsTotalHeader = "X-Page-Spec-Warnings-Total"

	// MaxHeaderWarnings caps how many warnings go into WarningsHeader
	MaxHeaderWarnings = 20

	// maxWarningTokenLength truncates echoed tokens
	maxWarningTokenLength = 32

	// RequestIDHeader carries the request ID in both directions
	RequestIDHeader = "X-Request-ID"
)
