// internal/writer/ingest/client_test.go
package ingest

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacket_MarshalBinary(t *testing.T) {
	b, err := Packet{Area: 3, UnitID: 1, Address: 20, Count: 1, Payload: []byte{0x00, 0x02}}.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{'R', 'I', 0x01, 0x03, 0x00, 0x01, 0x00, 0x14, 0x00, 0x01, 0x00, 0x02}, b)
}

// serveOnce accepts one packet and answers with status.
func serveOnce(t *testing.T, status byte) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		header := make([]byte, headerLen)
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		count := int(header[8])<<8 | int(header[9])
		payload := make([]byte, 2*count)
		if _, err := io.ReadFull(conn, payload); err != nil {
			return
		}
		got <- append(header, payload...)
		_, _ = conn.Write([]byte{status})
	}()
	return ln.Addr().String(), got
}

func TestWriteRegisters(t *testing.T) {
	addr, got := serveOnce(t, respOK)

	c, err := NewEndpointClient(Config{Endpoint: addr})
	require.NoError(t, err)
	require.NoError(t, c.WriteRegisters(3, 2, 28, []uint16{0x0102, 0x0304}))

	pkt := <-got
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, pkt[headerLen:])
	assert.Equal(t, byte(2), pkt[5])
	assert.Equal(t, byte(28), pkt[7])
}

func TestRejected(t *testing.T) {
	addr, _ := serveOnce(t, respRejected)

	c, err := NewEndpointClient(Config{Endpoint: addr})
	require.NoError(t, err)
	assert.ErrorIs(t, c.WriteRegisters(3, 1, 0, []uint16{1}), ErrRejected)
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	assert.Error(t, err)
}
