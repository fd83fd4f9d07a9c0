//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify posts to Notification Center through osascript. The category,
// when set, is shown as the subtitle.
func Notify(title, body string, opts Options) error {
	subtitle := opts.app()
	if opts.Category != "" {
		subtitle = opts.Category
	}
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, title, subtitle)
	return exec.Command("osascript", "-e", script).Run()
}
