package treelight

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/treelight/ledserial"
)

// Strip is an addressable LED strip. The daemon sets one packed color per
// pixel each frame and then calls Show to push the buffer to hardware.
type Strip interface {
	// Init prepares the strip to drive the given number of LEDs.
	Init(numLEDs int) error
	// SetPixel sets the pixel at the given index to a packed color, laid
	// out as Color.Pack produces.
	SetPixel(i int, c uint32)
	// Show pushes the buffered pixels to the strip.
	Show() error
	// Clear blanks the whole strip.
	Clear() error
	// Close releases the strip.
	Close() error
}

// DevicePacketReader is implemented by strips whose controller talks back.
type DevicePacketReader interface {
	// ReadPacket blocks until the controller sends a packet.
	ReadPacket() (ledserial.DevicePacket, error)
}

// SerialStrip drives an LED strip controller over a serial port with the
// ledserial protocol.
type SerialStrip struct {
	port serial.Port
	pix  []uint8
}

var (
	_ Strip              = (*SerialStrip)(nil)
	_ DevicePacketReader = (*SerialStrip)(nil)
)

// OpenSerialStrip opens the serial device for the strip controller.
func OpenSerialStrip(device string, baud int) (*SerialStrip, error) {
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baud,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open serial port")
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "failed to reset read timeout")
	}

	return &SerialStrip{port: port}, nil
}

// Init tells the controller the strip length and sizes the pixel buffer.
func (s *SerialStrip) Init(numLEDs int) error {
	s.pix = make([]uint8, 3*numLEDs)
	return ledserial.WriteHostPacket(s.port, ledserial.InitializePacket{
		NumLEDs: uint16(numLEDs),
	})
}

// SetPixel unpacks the color into the buffer. The controller takes pixels as
// three bytes each in R, G, B order.
func (s *SerialStrip) SetPixel(i int, c uint32) {
	r, g, b := UnpackColor(c)
	s.pix[3*i+0] = r
	s.pix[3*i+1] = g
	s.pix[3*i+2] = b
}

// Show pushes the buffered pixels to the controller.
func (s *SerialStrip) Show() error {
	return ledserial.WriteHostPacket(s.port, ledserial.SetPacket{Pix: s.pix})
}

// Clear blanks the strip.
func (s *SerialStrip) Clear() error {
	for i := range s.pix {
		s.pix[i] = 0
	}
	return ledserial.WriteHostPacket(s.port, ledserial.ClearPacket{})
}

// ReadPacket blocks until the controller sends a packet.
func (s *SerialStrip) ReadPacket() (ledserial.DevicePacket, error) {
	return ledserial.ReadDevicePacket(s.port)
}

// Close closes the serial port. A blocked ReadPacket returns with an error.
func (s *SerialStrip) Close() error {
	return s.port.Close()
}
