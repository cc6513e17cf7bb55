// internal/status/constants.go
package status

// Robot Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per robot.
const SlotsPerDevice = 28

// ---- BRIDGE SLOTS ----

// SlotHealthCode holds the bridge health state.
const SlotHealthCode = 0

// SlotStatus holds the composite robot status (idle, waiting, busy, error).
const SlotStatus = 1

// SlotSecondsNotReady holds how long (in seconds) the bridge has not been ready.
const SlotSecondsNotReady = 2

// ---- ROBOT STATE SLOTS ----

const (
	SlotPower = 3 + iota
	SlotAuto
	SlotDefault
	SlotRunning
	SlotTool
	SlotDiffLid
	SlotDiffSample
	SlotToolLid
	SlotToolSample
	SlotPlate
	SlotWell
	SlotSpeed
	SlotLN2
)

// SlotLiveEnd is the last slot refreshed on every write (inclusive).
const SlotLiveEnd = SlotLN2

// LN2 flag bits inside SlotLN2.
const (
	LN2Dewar1 uint16 = 1 << 0
	LN2Dewar2 uint16 = 1 << 1
)

// ---- RESERVED RANGE ----

// Slots 16–19 are reserved for future use.
const SlotReservedStart = 16
const SlotReservedEnd = 19

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 20

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// SecondsNotReadyMax is where the not-ready counter saturates.
const SecondsNotReadyMax = 65535

// ---- HEALTH CODES ----

// HealthUnknown means the bridge has never been ready.
const HealthUnknown uint16 = 0

// HealthOK means both channels are up and status is fresh.
const HealthOK uint16 = 1

// HealthError means the bridge was ready and lost a channel.
const HealthError uint16 = 2

// HealthStale means the bridge is ready but no state telegram arrived recently.
const HealthStale uint16 = 3

// HealthDisabled means robot control is disabled.
const HealthDisabled uint16 = 4
