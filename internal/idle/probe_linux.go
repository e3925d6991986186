//go:build linux

package idle

import (
	"os/exec"
	"strconv"
	"strings"
)

// Probe returns the X11 oracle, shelling out to xprintidle, which
// reports milliseconds since the last input event.
func Probe() Func {
	return func() float64 {
		out, err := exec.Command("xprintidle").Output()
		if err != nil {
			return 0
		}
		ms, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
		if err != nil {
			return 0
		}
		return ms / 1000
	}
}
