package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sage-x-project/licguard/session"
	"github.com/sage-x-project/licguard/wire"
)

// errorDisplayDelay gives a release-build user time to read the denial
// message before the process aborts.
const errorDisplayDelay = 10 * time.Second

// GUIBackend is the only surface the core session logic talks to on the
// client side: prompt for a key, show a successful license, or show a
// denial. Nothing else.
type GUIBackend interface {
	PromptLicense() string
	ShowLicenseDetails(details session.LicenseDetails)
	ShowLicenseError(kind wire.LicenseError)
}

func displayLicenseError(kind wire.LicenseError) string {
	switch kind {
	case wire.LicenseErrorExpired:
		return "Your license has expired!"
	case wire.LicenseErrorInvalidKey:
		return "Your license key is invalid!"
	case wire.LicenseErrorTooManySessions:
		return "Too many sessions!"
	case wire.LicenseErrorRevoked:
		return "Your license has been revoked!"
	default:
		return "Internal error! Contact support."
	}
}

// TUI is a minimal terminal GUIBackend: it reads the license key from
// stdin and prints outcomes to stdout. It is peripheral scaffolding,
// not the interactive prompt's final visual design.
type TUI struct{}

func (TUI) PromptLicense() string {
	fmt.Print("Enter your license key: ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (TUI) ShowLicenseDetails(details session.LicenseDetails) {
	fmt.Printf("Access Granted!\nYour license expires at: %s\n", details.Expiry.Format(time.RFC3339))
}

func (TUI) ShowLicenseError(kind wire.LicenseError) {
	fmt.Printf("Access Denied!\n%s\n", displayLicenseError(kind))
	time.Sleep(errorDisplayDelay)
}
