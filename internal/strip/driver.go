// Package strip pushes rendered frames to the physical LED strip.
package strip

import "fmt"

// Driver writes complete frames to hardware. Write is called once per
// render tick and must return within one tick interval.
type Driver interface {
	// Write pushes a full frame. len(frame) equals the configured LED count.
	Write(frame Frame) error
	// Close blanks the strip where possible and releases the device.
	Close() error
	// Name identifies the driver in logs and status output.
	Name() string
}

// HardwareError wraps a failure reported by the strip-driving primitive.
// It is transient: the render loop logs it and continues.
type HardwareError struct {
	Driver string
	Err    error
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("%s: %v", e.Driver, e.Err)
}

func (e *HardwareError) Unwrap() error {
	return e.Err
}
