// internal/status/status_test.go
package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutFitsBlock(t *testing.T) {
	assert.Less(t, SlotLiveEnd, SlotReservedStart)
	assert.Less(t, SlotReservedEnd, SlotDeviceNameStart)
	assert.Equal(t, SlotsPerDevice-1, SlotDeviceNameEnd)
}

func TestEncode(t *testing.T) {
	regs := Encode(Snapshot{
		Health:          HealthOK,
		Status:          2,
		SecondsNotReady: 7,
		Tool:            3,
		Well:            192,
		LN2:             LN2Dewar1 | LN2Dewar2,
	})

	assert.Len(t, regs, SlotsPerDevice)
	assert.Equal(t, HealthOK, regs[SlotHealthCode])
	assert.Equal(t, uint16(2), regs[SlotStatus])
	assert.Equal(t, uint16(7), regs[SlotSecondsNotReady])
	assert.Equal(t, uint16(3), regs[SlotTool])
	assert.Equal(t, uint16(192), regs[SlotWell])
	assert.Equal(t, uint16(3), regs[SlotLN2])
	for i := SlotReservedStart; i < SlotsPerDevice; i++ {
		assert.Zero(t, regs[i], "slot %d", i)
	}
}

func TestEncodeDeviceName(t *testing.T) {
	regs := EncodeDeviceName("BOBCATS")
	assert.Len(t, regs, SlotDeviceNameSlots)
	assert.Equal(t, uint16('B')<<8|uint16('O'), regs[0])
	assert.Equal(t, uint16('S')<<8, regs[3])
	assert.Zero(t, regs[4])

	long := EncodeDeviceName("ABCDEFGHIJKLMNOPQRST")
	assert.Equal(t, uint16('O')<<8|uint16('P'), long[7])

	assert.Equal(t, uint16('?')<<8|uint16('A'), EncodeDeviceName("\x01A")[0])
}

func TestHealth(t *testing.T) {
	assert.Equal(t, HealthDisabled, Health(false, true, true, false))
	assert.Equal(t, HealthOK, Health(true, true, true, false))
	assert.Equal(t, HealthStale, Health(true, true, true, true))
	assert.Equal(t, HealthError, Health(true, false, true, false))
	assert.Equal(t, HealthUnknown, Health(true, false, false, false))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, uint16(0), Clamp(-3))
	assert.Equal(t, uint16(42), Clamp(42))
	assert.Equal(t, uint16(0xFFFF), Clamp(1<<20))
}
