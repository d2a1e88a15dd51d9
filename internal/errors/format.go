package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// statusCoder is implemented by errors carrying an HTTP status from the
// Clockify API.
type statusCoder interface {
	HTTPStatus() int
}

var titles = map[ErrorType]string{
	ErrorTypeValidation: "Validation Error",
	ErrorTypeAuth:       "Authentication Error",
	ErrorTypeAPI:        "API Error",
	ErrorTypeNetwork:    "Network Error",
	ErrorTypeConfig:     "Configuration Error",
	ErrorTypeNotFound:   "Not Found",
}

// typeHints apply when an error carries no context of its own.
var typeHints = map[ErrorType]string{
	ErrorTypeNetwork: "Check your connection. CLOCKIFY_BASE_URL overrides the API endpoint.",
	ErrorTypeConfig:  "Run 'clockify config path' to locate the configuration file.",
}

var statusHints = map[int]string{
	http.StatusBadRequest:      "Clockify rejected the request. Check the project and tag ids.",
	http.StatusNotFound:        "The workspace or entry does not exist or belongs to another user.",
	http.StatusTooManyRequests: "Rate limit reached. Wait a moment and try again.",
}

// FormatError renders a CLIError as "✗ <title>: <message>". API failures
// name the HTTP status in the title. A hint follows on its own paragraph.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}

	title, ok := titles[err.Type]
	if !ok {
		title = "Error"
	}

	var sc statusCoder
	hasStatus := stderrors.As(err.Err, &sc)
	if hasStatus {
		title = fmt.Sprintf("%s (%d %s)", title, sc.HTTPStatus(), http.StatusText(sc.HTTPStatus()))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✗ %s: %v", title, err.Err)

	hint := err.Context
	if hint == "" {
		hint = typeHints[err.Type]
	}
	if hint == "" && hasStatus {
		hint = statusHints[sc.HTTPStatus()]
	}
	if hint != "" {
		sb.WriteString("\n\n")
		sb.WriteString(hint)
	}

	return sb.String()
}

// FormatSimple formats any error, using the typed prefix when a CLIError is
// somewhere in the chain.
func FormatSimple(err error) string {
	if err == nil {
		return ""
	}

	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return FormatError(cliErr)
	}

	return fmt.Sprintf("✗ Error: %v", err)
}
