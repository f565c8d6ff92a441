// Package statusled mirrors the render loop state on a board LED: solid while
// the strip is rendering, off while idle, heartbeat while frame writes fail.
package statusled

// Pattern is a board LED display mode.
type Pattern string

const (
	PatternOff       Pattern = "off"
	PatternSolid     Pattern = "solid"
	PatternHeartbeat Pattern = "heartbeat"
)

// Patterns lists every pattern a Controller must accept.
var Patterns = []Pattern{PatternOff, PatternSolid, PatternHeartbeat}

// Controller drives one board LED.
type Controller interface {
	// Set switches the LED to pattern.
	Set(pattern Pattern) error

	// Name identifies the LED, e.g. its sysfs name. Empty for no-op
	// controllers.
	Name() string
}
