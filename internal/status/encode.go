// internal/status/encode.go
package status

// Encode converts a Snapshot into a full robot status block.
// Reserved and device name slots are left zero.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotStatus] = s.Status
	regs[SlotSecondsNotReady] = s.SecondsNotReady

	regs[SlotPower] = s.Power
	regs[SlotAuto] = s.Auto
	regs[SlotDefault] = s.Default
	regs[SlotRunning] = s.Running
	regs[SlotTool] = s.Tool
	regs[SlotDiffLid] = s.DiffLid
	regs[SlotDiffSample] = s.DiffSample
	regs[SlotToolLid] = s.ToolLid
	regs[SlotToolSample] = s.ToolSample
	regs[SlotPlate] = s.Plate
	regs[SlotWell] = s.Well
	regs[SlotSpeed] = s.Speed
	regs[SlotLN2] = s.LN2

	return regs
}

// EncodeDeviceName packs up to 16 ASCII characters into 8 registers.
// Each register stores two ASCII bytes in big-endian order.
// Non-printable bytes are replaced with '?'.
func EncodeDeviceName(name string) []uint16 {
	out := make([]uint16, SlotDeviceNameSlots)

	b := []byte(name)
	if len(b) > DeviceNameMaxChars {
		b = b[:DeviceNameMaxChars]
	}

	for i := 0; i < DeviceNameMaxChars; i += 2 {
		out[i/2] = uint16(printable(b, i))<<8 | uint16(printable(b, i+1))
	}
	return out
}

func printable(b []byte, i int) byte {
	if i >= len(b) {
		return 0
	}
	if b[i] < 0x20 || b[i] > 0x7E {
		return '?'
	}
	return b[i]
}
