// Package ledserial implements the framed serial protocol spoken between the
// daemon and the LED strip controller. Host packets carry the strip state
// down to the controller; device packets carry acknowledgements and
// diagnostics back up. Every frame ends in a little-endian CRC-32 (IEEE) of
// the preceding bytes.
package ledserial

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// HostPacketType is the type of a packet sent from the host to the
// controller.
type HostPacketType uint8

const (
	TypeInitializePacket HostPacketType = iota
	TypeClearPacket
	TypeSetPacket
)

func (t HostPacketType) String() string {
	switch t {
	case TypeInitializePacket:
		return "initialize"
	case TypeClearPacket:
		return "clear"
	case TypeSetPacket:
		return "set"
	default:
		return fmt.Sprintf("HostPacketType(%d)", uint8(t))
	}
}

// HostPacket is a packet sent from the host to the controller.
type HostPacket interface {
	// Type returns the type of packet.
	Type() HostPacketType
}

// InitializePacket tells the controller how many LEDs to drive.
type InitializePacket struct {
	NumLEDs uint16
}

// ClearPacket blanks the whole strip.
type ClearPacket struct{}

// SetPacket replaces the strip contents. Pix holds three bytes per LED in
// R, G, B order; its length must be 3*NumLEDs from the preceding initialize.
type SetPacket struct {
	Pix []uint8
}

func (p InitializePacket) Type() HostPacketType { return TypeInitializePacket }
func (p ClearPacket) Type() HostPacketType      { return TypeClearPacket }
func (p SetPacket) Type() HostPacketType        { return TypeSetPacket }

// DevicePacketType is the type of a packet sent from the controller back to
// the host.
type DevicePacketType uint8

const (
	TypeAckPacket DevicePacketType = iota
	TypeErrorPacket
	TypePanicPacket
	TypeLogPacket
)

func (t DevicePacketType) String() string {
	switch t {
	case TypeAckPacket:
		return "ack"
	case TypeErrorPacket:
		return "error"
	case TypePanicPacket:
		return "panic"
	case TypeLogPacket:
		return "log"
	default:
		return fmt.Sprintf("DevicePacketType(%d)", uint8(t))
	}
}

// DevicePacket is a packet sent from the controller back to the host.
type DevicePacket interface {
	// Type returns the type of packet.
	Type() DevicePacketType
}

// AckPacket acknowledges a host packet.
type AckPacket struct {
	AckedType HostPacketType
}

// ErrorPacket reports a recoverable controller error.
type ErrorPacket struct {
	Message string
}

// PanicPacket reports that the controller cannot recover.
type PanicPacket struct{}

// LogPacket carries a controller log message.
type LogPacket struct {
	Message string
}

func (p AckPacket) Type() DevicePacketType   { return TypeAckPacket }
func (p ErrorPacket) Type() DevicePacketType { return TypeErrorPacket }
func (p PanicPacket) Type() DevicePacketType { return TypePanicPacket }
func (p LogPacket) Type() DevicePacketType   { return TypeLogPacket }

// ReadContext carries strip state that the controller needs to size incoming
// packets.
type ReadContext struct {
	// NumLEDs is the number of LEDs in the strip.
	NumLEDs uint16
}

// ReadHostPacket reads a host packet from the given reader.
func ReadHostPacket(r io.Reader, context ReadContext) (HostPacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var packet HostPacket
	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read host packet type: %w", err)
	}

	switch ptype := HostPacketType(ptypeBuf[0]); ptype {
	case TypeInitializePacket:
		var p InitializePacket
		if err := binary.Read(r, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read number of LEDs: %w", err)
		}
		packet = p

	case TypeClearPacket:
		packet = ClearPacket{}

	case TypeSetPacket:
		p := SetPacket{Pix: make([]uint8, 3*context.NumLEDs)}
		if _, err := io.ReadFull(r, p.Pix); err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteHostPacket writes a host packet to the given writer.
func WriteHostPacket(w io.Writer, p HostPacket) error {
	hash := crc32.NewIEEE()
	w = io.MultiWriter(w, hash)

	switch p := p.(type) {
	case InitializePacket:
		if err := binary.Write(w, Endianness, TypeInitializePacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
		if err := binary.Write(w, Endianness, p); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	case ClearPacket:
		if err := binary.Write(w, Endianness, TypeClearPacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
	case SetPacket:
		if err := binary.Write(w, Endianness, TypeSetPacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
		if _, err := w.Write(p.Pix); err != nil {
			return fmt.Errorf("failed to write pixel data: %w", err)
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

// ReadDevicePacket reads a device packet from the given reader.
func ReadDevicePacket(r io.Reader) (DevicePacket, error) {
	hash := crc32.NewIEEE()
	r = io.TeeReader(r, hash)

	var packet DevicePacket
	var ptypeBuf [1]byte
	if _, err := io.ReadFull(r, ptypeBuf[:]); err != nil {
		return nil, fmt.Errorf("failed to read device packet type: %w", err)
	}

	switch ptype := DevicePacketType(ptypeBuf[0]); ptype {
	case TypeAckPacket:
		var p AckPacket
		if err := binary.Read(r, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read acked type: %w", err)
		}
		packet = p

	case TypeErrorPacket:
		msg, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		packet = ErrorPacket{Message: msg}

	case TypePanicPacket:
		packet = PanicPacket{}

	case TypeLogPacket:
		msg, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read log message: %w", err)
		}
		packet = LogPacket{Message: msg}

	default:
		return nil, fmt.Errorf("unknown packet type: %s", ptype)
	}

	if err := verifyChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}
	return packet, nil
}

// WriteDevicePacket writes a device packet to the given writer.
func WriteDevicePacket(w io.Writer, p DevicePacket) error {
	hash := crc32.NewIEEE()
	w = io.MultiWriter(w, hash)

	switch p := p.(type) {
	case AckPacket:
		if err := binary.Write(w, Endianness, TypeAckPacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
		if err := binary.Write(w, Endianness, p); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	case ErrorPacket:
		if err := binary.Write(w, Endianness, TypeErrorPacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
		if err := writeString(w, p.Message); err != nil {
			return fmt.Errorf("failed to write error message: %w", err)
		}
	case PanicPacket:
		if err := binary.Write(w, Endianness, TypePanicPacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
	case LogPacket:
		if err := binary.Write(w, Endianness, TypeLogPacket); err != nil {
			return fmt.Errorf("failed to write packet type: %w", err)
		}
		if err := writeString(w, p.Message); err != nil {
			return fmt.Errorf("failed to write log message: %w", err)
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

func readString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, Endianness, uint16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func verifyChecksum(r io.Reader, sum uint32) error {
	var checksum uint32
	if err := binary.Read(r, Endianness, &checksum); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if checksum != sum {
		return fmt.Errorf("packet checksum mismatch")
	}
	return nil
}
