// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tamzrod/cats-bridge/internal/status"
)

// deviceStatusWriter is the concrete implementation used by the mirror.
type deviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16 // live slots as last delivered
	nameRegs []uint16

	needIO     bool
	lastInputs []bool
	lastOuts   []bool
}

func newDeviceStatusWriter(plan StatusPlan, cli endpointClient) *deviceStatusWriter {
	return &deviceStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		needIO:   true,
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
	}
}

// WriteStatus delivers a robot status snapshot into status memory.
// On any write failure, the next call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}

	regs := status.Encode(s)
	baseAddr := sw.baseAddr()
	unitID := sw.plan.UnitID

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		copy(regs[status.SlotDeviceNameStart:], sw.nameRegs)

		if err := sw.cli.WriteRegisters(areaHoldingRegisters, unitID, baseAddr, regs); err != nil {
			sw.needFull = true
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = append([]uint16(nil), regs[:status.SlotLiveEnd+1]...)
		return nil
	}

	// ------------------------------------------------------------
	// Incremental: one write per run of changed live slots
	// ------------------------------------------------------------
	var errs []string

	for start := 0; start <= status.SlotLiveEnd; {
		if sw.last[start] == regs[start] {
			start++
			continue
		}
		end := start
		for end+1 <= status.SlotLiveEnd && sw.last[end+1] != regs[end+1] {
			end++
		}

		run := regs[start : end+1]
		if err := sw.cli.WriteRegisters(areaHoldingRegisters, unitID, baseAddr+uint16(start), run); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", start, end, err))
		} else {
			copy(sw.last[start:], run)
		}
		start = end + 1
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}

	return nil
}

// WriteIO mirrors the digital inputs and outputs as coils when configured.
// Each bank is rewritten only when it changed.
func (sw *deviceStatusWriter) WriteIO(io IO) error {
	var errs []string

	write := func(addr *uint16, v *big.Int, last *[]bool, name string) {
		if addr == nil {
			return
		}
		bits := unpack(v, int(sw.plan.BitCount))
		if !sw.needIO && equalBits(bits, *last) {
			return
		}
		if err := sw.cli.WriteBits(areaCoils, sw.plan.UnitID, *addr, bits); err != nil {
			errs = append(errs, fmt.Sprintf("%s write failed: %v", name, err))
			return
		}
		*last = bits
	}

	write(sw.plan.InputsAddress, io.Inputs, &sw.lastInputs, "inputs")
	write(sw.plan.OutputsAddress, io.Outputs, &sw.lastOuts, "outputs")

	if len(errs) > 0 {
		sw.needIO = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	sw.needIO = false
	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each robot owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

// unpack returns the n least significant bits of v, bit 0 first.
func unpack(v *big.Int, n int) []bool {
	out := make([]bool, n)
	if v == nil {
		return out
	}
	for i := range out {
		out[i] = v.Bit(i) == 1
	}
	return out
}

func equalBits(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
