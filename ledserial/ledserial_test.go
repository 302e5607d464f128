package ledserial

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostPacketRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    HostPacket
		ctx  ReadContext
	}{
		{"initialize", InitializePacket{NumLEDs: 100}, ReadContext{}},
		{"clear", ClearPacket{}, ReadContext{}},
		{"set", SetPacket{Pix: []uint8{1, 2, 3, 4, 5, 6}}, ReadContext{NumLEDs: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteHostPacket(&buf, tt.p))

			got, err := ReadHostPacket(&buf, tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.p, got)
		})
	}
}

func TestDevicePacketRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    DevicePacket
	}{
		{"ack", AckPacket{AckedType: TypeSetPacket}},
		{"error", ErrorPacket{Message: "strip fault"}},
		{"panic", PanicPacket{}},
		{"log", LogPacket{Message: "booted"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteDevicePacket(&buf, tt.p))

			got, err := ReadDevicePacket(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.p, got)
		})
	}
}

func TestReadHostPacketChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHostPacket(&buf, InitializePacket{NumLEDs: 100}))

	// Corrupt the payload without touching the trailing checksum.
	b := buf.Bytes()
	b[1] ^= 0xff

	_, err := ReadHostPacket(bytes.NewReader(b), ReadContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestReadDevicePacketChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDevicePacket(&buf, LogPacket{Message: "hi"}))

	b := buf.Bytes()
	b[len(b)-1] ^= 0xff

	_, err := ReadDevicePacket(bytes.NewReader(b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum")
}

func TestReadHostPacketUnknownType(t *testing.T) {
	_, err := ReadHostPacket(bytes.NewReader([]byte{0xee, 0, 0, 0, 0}), ReadContext{})
	assert.Error(t, err)
}

func TestPacketTypeStrings(t *testing.T) {
	assert.Equal(t, "set", TypeSetPacket.String())
	assert.Equal(t, "ack", TypeAckPacket.String())
	assert.Equal(t, "HostPacketType(9)", HostPacketType(9).String())
}
