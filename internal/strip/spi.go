package strip

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// spiDriver drives a WS281x strip by encoding the NRZ waveform on SPI MOSI.
type spiDriver struct {
	port spi.PortCloser
	dev  *nrzled.Dev
	buf  []byte
}

func openSPI(cfg Config) (*spiDriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.SPIPort, err)
	}

	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: cfg.LEDCount,
		Channels:  3,
		Freq:      physic.Frequency(cfg.SPIFreqKHz) * physic.KiloHertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to attach nrzled on %q: %w", cfg.SPIPort, err)
	}

	return &spiDriver{
		port: port,
		dev:  dev,
		buf:  make([]byte, 0, cfg.LEDCount*3),
	}, nil
}

func (d *spiDriver) Write(frame Frame) error {
	d.buf = frame.AppendRGB(d.buf[:0])
	if _, err := d.dev.Write(d.buf); err != nil {
		return &HardwareError{Driver: DriverSPI, Err: err}
	}
	return nil
}

func (d *spiDriver) Close() error {
	haltErr := d.dev.Halt()
	closeErr := d.port.Close()
	if haltErr != nil {
		return &HardwareError{Driver: DriverSPI, Err: haltErr}
	}
	return closeErr
}

func (d *spiDriver) Name() string {
	return DriverSPI
}
