// internal/protocol/operations.go
package protocol

import "fmt"

// Positional layouts of the trajectory commands.
//
// Puck and plate trajectories share one argument schema; unused slots are
// zero. Offsets and arities are protocol constants and MUST NOT be configurable.
const (
	PuckArity = 13

	SlotTool     = 0
	SlotLid      = 1
	SlotSample   = 2
	SlotPlate    = 5
	SlotWell     = 6
	SlotType     = 7
	SlotDrop     = 8
	SlotAdjustX  = 10
	SlotAdjustY  = 11
	SlotFocusZ   = 12
	SlotAngle    = 13
	SlotStart    = 13
	SlotDelta    = 14
	SlotExposure = 15
	SlotSteps    = 16
	SlotEnd      = 17
)

// Status query keywords in polling order.
var StatusQueries = []string{"state", "di", "do", "position"}

// positional returns an arity-sized zero-filled argument list with the
// given slot values applied.
func positional(arity int, slots map[int]any) []any {
	args := make([]any, arity)
	for i := range args {
		args[i] = 0
	}
	for i, v := range slots {
		args[i] = v
	}
	return args
}

// ---- puck trajectories ----

func Put(tool, lid, sample int) Command {
	return NewCommand("put", puckArgs(tool, lid, sample)...)
}

func GetPut(tool, lid, sample int) Command {
	return NewCommand("getput", puckArgs(tool, lid, sample)...)
}

func Get(tool int) Command {
	return NewCommand("get", tool)
}

func puckArgs(tool, lid, sample int) []any {
	return positional(PuckArity, map[int]any{
		SlotTool:   tool,
		SlotLid:    lid,
		SlotSample: sample,
	})
}

// ---- plate trajectories ----

func PutPlate(tool, plate, well, plateType int) Command {
	return NewCommand("putplate", positional(SlotType+1, map[int]any{
		SlotTool:  tool,
		SlotPlate: plate,
		SlotWell:  well,
		SlotType:  plateType,
	})...)
}

func GetPutPlate(tool, plate, well, plateType, drop int) Command {
	return NewCommand("getputplate", positional(SlotDrop+1, map[int]any{
		SlotTool:  tool,
		SlotPlate: plate,
		SlotWell:  well,
		SlotType:  plateType,
		SlotDrop:  drop,
	})...)
}

func GetPlate(tool int) Command {
	return NewCommand("getplate", tool)
}

func Adjust(tool int, x, y float64) Command {
	return NewCommand("adjust", positional(SlotAdjustY+1, map[int]any{
		SlotTool:    tool,
		SlotAdjustX: x,
		SlotAdjustY: y,
	})...)
}

func Focus(tool int, z float64) Command {
	return NewCommand("focus", positional(SlotFocusZ+1, map[int]any{
		SlotTool:   tool,
		SlotFocusZ: z,
	})...)
}

func PlateAngle(tool int, angle float64) Command {
	return NewCommand("plateangle", positional(SlotAngle+1, map[int]any{
		SlotTool:  tool,
		SlotAngle: angle,
	})...)
}

// Exposure holds the oscillation parameters of expose and collect.
type Exposure struct {
	Start    float64
	Delta    float64
	Exposure float64
	Steps    int
	End      float64
}

func Expose(tool int, e Exposure) Command {
	return NewCommand("expose", positional(SlotSteps+1, map[int]any{
		SlotTool:     tool,
		SlotStart:    e.Start,
		SlotDelta:    e.Delta,
		SlotExposure: e.Exposure,
		SlotSteps:    e.Steps,
	})...)
}

func Collect(tool int, e Exposure) Command {
	return NewCommand("collect", positional(SlotEnd+1, map[int]any{
		SlotTool:     tool,
		SlotStart:    e.Start,
		SlotDelta:    e.Delta,
		SlotExposure: e.Exposure,
		SlotSteps:    e.Steps,
		SlotEnd:      e.End,
	})...)
}

// ---- tool commands ----

func Home(tool int) Command    { return NewCommand("home", tool) }
func ToolCal(tool int) Command { return NewCommand("toolcal", tool) }
func Back(tool int) Command    { return NewCommand("back", tool) }

func SetDiffr(lid, sample, tool int) Command {
	return NewCommand("setdiffr", lid, sample, tool)
}

// ---- bare commands ----

func OpenLid(lid int) Command  { return NewCommand(fmt.Sprintf("openlid%d", lid)) }
func CloseLid(lid int) Command { return NewCommand(fmt.Sprintf("closelid%d", lid)) }

var (
	Reset       = NewCommand("reset")
	PowerOn     = NewCommand("on")
	PowerOff    = NewCommand("off")
	Pause       = NewCommand("pause")
	Abort       = NewCommand("abort")
	Restart     = NewCommand("restart")
	ClearMemory = NewCommand("clear memory")
)
