package analyzer

import "fmt"

// Kind classifies why a run failed.
type Kind string

const (
	KindNavigation    Kind = "NAVIGATION_FAILED"
	KindBrowserLaunch Kind = "BROWSER_LAUNCH_FAILED"
	KindExtraction    Kind = "EXTRACTION_FAILED"
	KindScreenshot    Kind = "SCREENSHOT_FAILED"
	KindFileWrite     Kind = "FILE_WRITE_FAILED"
)

// Error is returned by Run. It wraps the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrNavigation    = &Error{Kind: KindNavigation, Message: "navigation failed"}
	ErrBrowserLaunch = &Error{Kind: KindBrowserLaunch, Message: "browser launch failed"}
	ErrExtraction    = &Error{Kind: KindExtraction, Message: "extraction failed"}
	ErrScreenshot    = &Error{Kind: KindScreenshot, Message: "screenshot failed"}
	ErrFileWrite     = &Error{Kind: KindFileWrite, Message: "file write failed"}
)

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}
