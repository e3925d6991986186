// Package idle probes how long the host has gone without user input.
package idle

// Func reports seconds elapsed since the last input event. Probes are
// platform specific and opaque to the tracker; a probe that cannot read
// the host reports zero, which classifies as focus.
type Func func() float64
