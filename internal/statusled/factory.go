package statusled

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// Config selects the board LED.
type Config struct {
	// Enabled turns the indicator on. A disabled indicator uses the no-op
	// controller.
	Enabled bool
	// LED overrides board detection with a sysfs LED name, e.g. "ACT".
	LED string
	// Root is the sysfs LED directory. Defaults to /sys/class/leds.
	Root string
}

// boardLEDs maps device tree model substrings to the LED used as indicator.
var boardLEDs = []struct {
	model string
	led   string
}{
	{"NanoPC-T6", "sys_led"},
	{"Orange Pi", "green_led"},
	{"Raspberry Pi", "ACT"},
}

// New creates a controller for the configured or detected board LED.
// Falls back to a no-op controller if no LED is available.
func New(cfg Config, logger *slog.Logger) Controller {
	if !cfg.Enabled {
		return newNoop(logger)
	}
	if cfg.LED != "" {
		logger.Info("Using configured status LED", "led", cfg.LED)
		return newSysfs(cfg.Root, cfg.LED)
	}

	boardModel := detectBoard()
	logger.Info("Detecting board for status LED", "board_model", boardModel)

	if led := ledForBoard(boardModel); led != "" {
		logger.Info("Using sysfs status LED", "led", led)
		return newSysfs(cfg.Root, led)
	}

	logger.Info("No status LED support detected, using no-op controller", "board_model", boardModel)
	return newNoop(logger)
}

func ledForBoard(model string) string {
	for _, b := range boardLEDs {
		if strings.Contains(model, b.model) {
			return b.led
		}
	}
	return ""
}

// detectBoard reads the device tree model to identify the board.
func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}

	// Device tree model contains null bytes, trim them
	return strings.TrimRight(string(data), "\x00")
}
