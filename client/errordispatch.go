package client

import (
	"os"

	"github.com/sage-x-project/licguard/session"
)

// ErrorDispatcher classifies a session failure: a license error is
// user-visible and shown through the GUI; anything else is fatal.
//
// Debug set true returns the error to the caller instead of
// terminating the process, for use under a debugger or in tests.
type ErrorDispatcher struct {
	GUI   GUIBackend
	Debug bool
}

// Dispatch handles err: outside Debug mode, a license error is displayed
// and the process then terminates, regardless of whether display
// succeeded; any other error terminates the process without display. In
// Debug mode the error is returned unchanged and nothing is displayed.
func (d *ErrorDispatcher) Dispatch(err *session.SessionError) error {
	if d.Debug {
		return err
	}
	return d.handleRelease(err)
}

// handleRelease shows a license error if present, then terminates the
// process. The loop below is deliberately unreachable in the absence of
// tampering: os.Exit is documented to terminate immediately, so nothing
// after it runs unless the call itself has been hooked out from under
// us, in which case the loop keeps the process from falling through to
// caller code with a live, unauthenticated session.
func (d *ErrorDispatcher) handleRelease(err *session.SessionError) error {
	if err.Kind == session.FailureLicenseError && err.License != nil {
		d.GUI.ShowLicenseError(*err.License)
	}
	for {
		os.Exit(100)
	}
}
