//go:build darwin

package idle

import (
	"bufio"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// IOKit reports HIDIdleTime in nanoseconds since the last input event.
var hidIdleRe = regexp.MustCompile(`HIDIdleTime"\s*=\s*([0-9]+)`)

// Probe returns the macOS oracle, parsing HIDIdleTime out of
// `ioreg -c IOHIDSystem`.
func Probe() Func {
	return func() float64 {
		out, err := exec.Command("/usr/sbin/ioreg", "-c", "IOHIDSystem").Output()
		if err != nil {
			return 0
		}
		scanner := bufio.NewScanner(strings.NewReader(string(out)))
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.Contains(line, "HIDIdleTime") {
				continue
			}
			if m := hidIdleRe.FindStringSubmatch(line); len(m) == 2 {
				ns, _ := strconv.ParseFloat(m[1], 64)
				return ns / 1e9
			}
		}
		return 0
	}
}
