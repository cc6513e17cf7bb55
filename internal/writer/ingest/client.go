// internal/writer/ingest/client.go
package ingest

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Raw Ingest v1 wire constants (LOCKED).
const (
	magic     = "RI"
	versionV1 = 0x01

	headerLen = 10

	respOK       byte = 0x00
	respRejected byte = 0x01
)

// ErrRejected is returned when the endpoint refuses a packet.
var ErrRejected = errors.New("writer ingest: rejected")

// EndpointClient delivers status writes to a Raw Ingest v1 endpoint.
// Stateless: one packet per connection.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

func (c *EndpointClient) Close() error { return nil }

// WriteBits sends a bit area (coils or discrete inputs).
func (c *EndpointClient) WriteBits(area byte, unitID uint8, addr uint16, bits []bool) error {
	payload := make([]byte, (len(bits)+7)/8)
	for i, v := range bits {
		if v {
			payload[i/8] |= 1 << uint(i%8)
		}
	}
	return c.send(Packet{Area: area, UnitID: unitID, Address: addr, Count: uint16(len(bits)), Payload: payload})
}

// WriteRegisters sends a register area, big-endian.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	payload := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(payload[2*i:], r)
	}
	return c.send(Packet{Area: area, UnitID: unitID, Address: addr, Count: uint16(len(regs)), Payload: payload})
}

// Packet is one Raw Ingest v1 write.
//
// Header layout (10 bytes, big-endian):
//
//	0-1  magic "RI"
//	2    version
//	3    area
//	4-5  unit id
//	6-7  address
//	8-9  count
//	10+  payload
type Packet struct {
	Area    byte
	UnitID  uint8
	Address uint16
	Count   uint16
	Payload []byte
}

// MarshalBinary renders the packet on the wire.
func (p Packet) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(headerLen + len(p.Payload))

	buf.WriteString(magic)
	buf.WriteByte(versionV1)
	buf.WriteByte(p.Area)
	_ = binary.Write(&buf, binary.BigEndian, uint16(p.UnitID))
	_ = binary.Write(&buf, binary.BigEndian, p.Address)
	_ = binary.Write(&buf, binary.BigEndian, p.Count)
	buf.Write(p.Payload)

	return buf.Bytes(), nil
}

func (c *EndpointClient) send(p Packet) error {
	pkt, _ := p.MarshalBinary()

	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return fmt.Errorf("writer ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	// net.Conn.Write returns an error on short writes
	if _, err := conn.Write(pkt); err != nil {
		return fmt.Errorf("writer ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return fmt.Errorf("writer ingest: read status: %w", err)
	}

	switch resp[0] {
	case respOK:
		return nil
	case respRejected:
		return ErrRejected
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", resp[0])
	}
}
