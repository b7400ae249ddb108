package client

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/sage-x-project/licguard/session"
	"github.com/sage-x-project/licguard/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGUI struct {
	key          string
	shownDetails *session.LicenseDetails
	shownError   *wire.LicenseError
}

func (g *stubGUI) PromptLicense() string { return g.key }
func (g *stubGUI) ShowLicenseDetails(d session.LicenseDetails) {
	cp := d
	g.shownDetails = &cp
}
func (g *stubGUI) ShowLicenseError(kind wire.LicenseError) {
	cp := kind
	g.shownError = &cp
}

var _ GUIBackend = (*stubGUI)(nil)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestLoadKeyPromptsWhenFileMissing(t *testing.T) {
	restore := chdir(t, t.TempDir())
	defer restore()

	gui := &stubGUI{key: "ABC-123"}
	got := LoadKey(gui)
	assert.Equal(t, "ABC-123", got)

	b, err := os.ReadFile("./license.data")
	require.NoError(t, err)
	assert.Equal(t, "ABC-123", string(b))
}

func TestLoadKeyReadsExistingFile(t *testing.T) {
	restore := chdir(t, t.TempDir())
	defer restore()

	require.NoError(t, os.WriteFile("./license.data", []byte("CACHED-KEY\n"), 0o600))

	gui := &stubGUI{key: "SHOULD-NOT-BE-USED"}
	got := LoadKey(gui)
	assert.Equal(t, "CACHED-KEY", got)
}

func TestFuncVerifier(t *testing.T) {
	type seats struct {
		Seats int `json:"seats"`
	}
	verify := FuncVerifier(func(s seats) bool { return s.Seats > 0 })

	assert.True(t, verify(json.RawMessage(`{"seats":5}`)))
	assert.False(t, verify(json.RawMessage(`{"seats":0}`)))
	assert.False(t, verify(json.RawMessage(`not json`)))
}
