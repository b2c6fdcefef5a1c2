package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrInvalidFormat = fmt.Errorf("unsupported export format")

	// Capture errors
	ErrSessionStopped = fmt.Errorf("capture session stopped")
	ErrBrowser        = fmt.Errorf("browser unavailable")
	ErrNoCurlURL      = fmt.Errorf("no request URL in curl command")
	ErrAPIRequest     = fmt.Errorf("API request failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
