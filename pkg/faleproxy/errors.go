package faleproxy

import "fmt"

// MsgURLRequired is returned to clients that post no target URL.
const MsgURLRequired = "URL is required"

// ValidationError reports a request that was rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError reports a failed outbound GET. Status is zero when the upstream
// never answered (DNS, refused connection, timeout).
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: upstream responded with status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ParseError reports a document the HTML parser or renderer could not handle.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse html: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
