package treelight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialStripSetPixel(t *testing.T) {
	s := &SerialStrip{pix: make([]uint8, 9)}

	s.SetPixel(1, RGB(10, 20, 30).Pack())

	// Pixels land in the buffer as three bytes in R, G, B order.
	assert.Equal(t, []uint8{0, 0, 0, 10, 20, 30, 0, 0, 0}, s.pix)
}
