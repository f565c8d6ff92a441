package strip

import (
	"fmt"
	"log/slog"
)

// Driver names accepted in Config.Driver.
const (
	DriverAuto = "auto"
	DriverSPI  = "spi"
	DriverNoop = "noop"
)

// Config describes the attached strip.
type Config struct {
	LEDCount   int
	Pin        int
	Driver     string
	SPIPort    string
	SPIFreqKHz int
}

// New opens the configured driver. With DriverAuto a strip that cannot be
// opened falls back to the noop driver so the controller still serves its
// API (demo mode).
func New(cfg Config, logger *slog.Logger) (Driver, error) {
	if cfg.LEDCount <= 0 {
		return nil, fmt.Errorf("led count must be positive, got %d", cfg.LEDCount)
	}

	switch cfg.Driver {
	case DriverNoop:
		logger.Info("Using noop strip driver", "leds", cfg.LEDCount)
		return newNoop(logger), nil

	case DriverSPI:
		d, err := openSPI(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened SPI strip driver", "port", cfg.SPIPort, "leds", cfg.LEDCount, "pin", cfg.Pin)
		return d, nil

	case DriverAuto, "":
		d, err := openSPI(cfg)
		if err != nil {
			logger.Warn("LED strip initialization failed, running in demo mode without hardware",
				"error", err,
				"port", cfg.SPIPort)
			return newNoop(logger), nil
		}
		logger.Info("Opened SPI strip driver", "port", cfg.SPIPort, "leds", cfg.LEDCount, "pin", cfg.Pin)
		return d, nil

	default:
		return nil, fmt.Errorf("unknown strip driver %q", cfg.Driver)
	}
}
