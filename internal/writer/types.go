// internal/writer/types.go
package writer

import (
	"math/big"

	"github.com/tamzrod/cats-bridge/internal/status"
)

// StatusPlan is one status block destination inside an endpoint.
type StatusPlan struct {
	Endpoint   string
	Protocol   string // modbus | ingest
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string

	// Optional coil mirrors of the digital I/O.
	InputsAddress  *uint16
	OutputsAddress *uint16
	BitCount       uint16
}

// Plan is the fully-built mirror plan for one robot.
type Plan struct {
	Device  string
	Targets []StatusPlan
}

// IO is the digital I/O state delivered next to the status block.
type IO struct {
	Inputs  *big.Int
	Outputs *big.Int
}

// StatusWriter is the delivery-only contract for robot status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
	WriteIO(io IO) error
}
