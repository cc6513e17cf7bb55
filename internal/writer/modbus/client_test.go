// internal/writer/modbus/client_test.go
package modbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	assert.Error(t, err)

	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:502"})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestWrongArea(t *testing.T) {
	c, err := NewEndpointClient(Config{Endpoint: "127.0.0.1:502"})
	require.NoError(t, err)

	assert.Error(t, c.WriteBits(AreaHoldingRegisters, 1, 0, []bool{true}))
	assert.Error(t, c.WriteRegisters(AreaCoils, 1, 0, []uint16{1}))
}

func TestPacking(t *testing.T) {
	assert.Equal(t, []byte{0x0D, 0x01}, packBits([]bool{true, false, true, true, false, false, false, false, true}))
	assert.Equal(t, []byte{0x12, 0x34, 0x00, 0x01}, packRegisters([]uint16{0x1234, 1}))
}
