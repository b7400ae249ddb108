package client

import (
	"testing"

	"github.com/sage-x-project/licguard/session"
	"github.com/sage-x-project/licguard/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In Debug mode Dispatch must return the error rather than terminate
// the process, so tests (and debugger sessions) can observe it.
func TestDispatchDebugModeReturnsError(t *testing.T) {
	gui := &stubGUI{}
	d := &ErrorDispatcher{GUI: gui, Debug: true}

	kind := wire.LicenseErrorExpired
	in := &session.SessionError{Kind: session.FailureLicenseError, License: &kind}

	out := d.Dispatch(in)
	require.Error(t, out)
	assert.Same(t, in, out)
	assert.Nil(t, gui.shownError, "debug mode must not touch the GUI before returning")
}
