// internal/status/snapshot.go
package status

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health          uint16
	Status          uint16
	SecondsNotReady uint16

	Power      uint16
	Auto       uint16
	Default    uint16
	Running    uint16
	Tool       uint16
	DiffLid    uint16
	DiffSample uint16
	ToolLid    uint16
	ToolSample uint16
	Plate      uint16
	Well       uint16
	Speed      uint16
	LN2        uint16
}

// Health derives the health code from the bridge state.
// Disabled wins over everything; a bridge that was never ready is unknown.
func Health(enabled, ready, everReady, stale bool) uint16 {
	switch {
	case !enabled:
		return HealthDisabled
	case ready && stale:
		return HealthStale
	case ready:
		return HealthOK
	case everReady:
		return HealthError
	default:
		return HealthUnknown
	}
}

// Clamp converts a store integer to a register value.
// Negative values become 0 and large values saturate.
func Clamp(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > 0xFFFF:
		return 0xFFFF
	default:
		return uint16(v)
	}
}
