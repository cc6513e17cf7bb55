// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/cats-bridge/internal/status"
)

// endpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteBits(area byte, unitID uint8, addr uint16, bits []bool) error
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

const (
	areaCoils            byte = 1
	areaHoldingRegisters byte = 3
)

// Mirror fans one snapshot out to every configured target.
type Mirror struct {
	writers []StatusWriter
	names   []string
}

// New builds one status writer per target.
// Every target endpoint must have a client.
func New(plan Plan, clients map[string]endpointClient) (*Mirror, error) {
	m := &Mirror{}

	for _, sp := range plan.Targets {
		cli := clients[clientKey(sp.Protocol, sp.Endpoint)]
		if cli == nil {
			return nil, fmt.Errorf("writer: missing client for endpoint %s (%s)", sp.Endpoint, sp.Protocol)
		}
		if sp.DeviceName == "" {
			sp.DeviceName = plan.Device
		}
		m.writers = append(m.writers, newDeviceStatusWriter(sp, cli))
		m.names = append(m.names, fmt.Sprintf("%s/%d/%d", sp.Endpoint, sp.UnitID, sp.BaseSlot))
	}

	return m, nil
}

// Len returns the number of targets.
func (m *Mirror) Len() int {
	return len(m.writers)
}

// Write delivers the snapshot and the digital I/O to every target.
// A failing target does not stop the others.
func (m *Mirror) Write(s status.Snapshot, io IO) error {
	var errs []string

	for i, w := range m.writers {
		if err := w.WriteStatus(s); err != nil {
			errs = append(errs, fmt.Sprintf("target=%s status: %v", m.names[i], err))
			continue
		}
		if err := w.WriteIO(io); err != nil {
			errs = append(errs, fmt.Sprintf("target=%s io: %v", m.names[i], err))
		}
	}

	if len(errs) > 0 {
		return errors.New("writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func clientKey(protocol, endpoint string) string {
	if protocol == "" {
		protocol = "modbus"
	}
	return protocol + "://" + endpoint
}
