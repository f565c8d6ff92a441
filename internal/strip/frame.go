package strip

// Pixel is one RGB LED value.
type Pixel struct {
	R, G, B uint8
}

// Off is a dark pixel.
var Off = Pixel{}

// Frame holds one value per LED, index 0 nearest the controller.
type Frame []Pixel

// NewFrame returns a blank frame for n LEDs.
func NewFrame(n int) Frame {
	return make(Frame, n)
}

// Fill sets every pixel to p.
func (f Frame) Fill(p Pixel) {
	for i := range f {
		f[i] = p
	}
}

// Clear blanks the frame.
func (f Frame) Clear() {
	f.Fill(Off)
}

// IsBlank reports whether every pixel is off.
func (f Frame) IsBlank() bool {
	for _, p := range f {
		if p != Off {
			return false
		}
	}
	return true
}

// Scale multiplies every channel by level/255.
func (f Frame) Scale(level uint8) {
	if level == 255 {
		return
	}
	for i, p := range f {
		f[i] = Pixel{
			R: uint8(uint16(p.R) * uint16(level) / 255),
			G: uint8(uint16(p.G) * uint16(level) / 255),
			B: uint8(uint16(p.B) * uint16(level) / 255),
		}
	}
}

// AppendRGB appends the frame as packed R,G,B bytes to dst.
func (f Frame) AppendRGB(dst []byte) []byte {
	for _, p := range f {
		dst = append(dst, p.R, p.G, p.B)
	}
	return dst
}
