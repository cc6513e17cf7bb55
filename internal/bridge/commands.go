// internal/bridge/commands.go
package bridge

import (
	"fmt"
	"strings"

	"github.com/tamzrod/cats-bridge/internal/location"
	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// commandFunc handles a write to one command field.
type commandFunc func(c *Controller, value int)

// commandTable maps every command field to its handler.
var commandTable = map[string]commandFunc{
	CmdPower:       (*Controller).doPower,
	CmdLid:         (*Controller).doLid,
	CmdPut:         (*Controller).doPut,
	CmdGet:         (*Controller).doGet,
	CmdGetPut:      (*Controller).doGetPut,
	CmdPause:       bare(protocol.Pause),
	CmdSetTool:     (*Controller).doHome,
	CmdToolCal:     (*Controller).doToolCal,
	CmdBack:        (*Controller).doBack,
	CmdClear:       bare(protocol.ClearMemory),
	CmdAbort:       bare(protocol.Abort),
	CmdSetSample:   (*Controller).doSetSample,
	CmdHome:        (*Controller).doHome,
	CmdPutPlate:    (*Controller).doPutPlate,
	CmdGetPlate:    (*Controller).doGetPlate,
	CmdGetPutPlate: (*Controller).doGetPutPlate,
	CmdAdjust:      (*Controller).doAdjust,
	CmdTilt:        (*Controller).doTilt,
	CmdFocus:       (*Controller).doFocus,
	CmdExpose:      (*Controller).doExpose,
	CmdCollect:     (*Controller).doCollect,
	CmdRestart:     bare(protocol.Restart),
	CmdDismount:    (*Controller).doDismount,
	CmdMount:       (*Controller).doMount,
}

func (c *Controller) registerCommands() error {
	for field, fn := range commandTable {
		fn := fn
		err := c.store.OnWrite(field, func(_ string, v any) {
			n, _ := v.(int)
			fn(c, n)
		})
		if err != nil {
			return fmt.Errorf("bridge: register %s: %w", field, err)
		}
	}
	return nil
}

// skip records a command that failed its preconditions.
func (c *Controller) skip(field, reason string) {
	c.metrics.CommandDropped(reason)
	c.log.WithField("field", field).WithField("reason", reason).Debug("command skipped")
}

// bare handles toggles that send a fixed command.
func bare(cmd protocol.Command) commandFunc {
	return func(c *Controller, value int) {
		if value == 0 {
			return
		}
		c.Enqueue(cmd)
	}
}

// ---- robot ----

func (c *Controller) doPower(value int) {
	if value == 0 {
		c.Enqueue(protocol.PowerOff)
		return
	}
	if c.Enqueue(protocol.Reset) {
		c.after(c.powerOnDelay, func() { c.Enqueue(protocol.PowerOn) })
	}
}

func (c *Controller) doLid(value int) {
	lid := c.store.Int(ParLid)
	if lid == 0 {
		c.put(FieldWarning, "Please select a lid first!")
		return
	}
	if value == 1 {
		c.Enqueue(protocol.OpenLid(lid))
	} else {
		c.Enqueue(protocol.CloseLid(lid))
	}
}

// ---- tool ----

func (c *Controller) doHome(value int) {
	if tool := c.store.Int(ParTool); value != 0 && tool != 0 {
		c.Enqueue(protocol.Home(tool))
	}
}

func (c *Controller) doToolCal(value int) {
	if tool := c.store.Int(ParTool); value != 0 && tool != 0 {
		c.Enqueue(protocol.ToolCal(tool))
	}
}

func (c *Controller) doBack(value int) {
	if tool := c.store.Int(ParTool); value != 0 && tool != 0 {
		c.Enqueue(protocol.Back(tool))
	}
}

func (c *Controller) doSetSample(value int) {
	lid, sample, tool := c.store.Int(ParLid), c.store.Int(ParSample), c.store.Int(ParTool)
	if value == 0 {
		return
	}
	if lid == 0 || sample == 0 || tool == 0 {
		c.skip(CmdSetSample, "incomplete_sample")
		return
	}
	c.Enqueue(protocol.SetDiffr(lid, sample, tool))
}

// ---- pucks ----

// puckParams returns the selected pin when the puck tool is selected.
func (c *Controller) puckParams(field string) (tool, lid, sample int, ok bool) {
	tool, lid, sample = c.store.Int(ParTool), c.store.Int(ParLid), c.store.Int(ParSample)
	switch {
	case lid == 0 || sample == 0:
		c.skip(field, "incomplete_sample")
	case tool != c.tools.Puck:
		c.skip(field, "wrong_tool")
	default:
		ok = true
	}
	return
}

func (c *Controller) doPut(value int) {
	if value == 0 {
		return
	}
	if tool, lid, sample, ok := c.puckParams(CmdPut); ok {
		c.Enqueue(protocol.Put(tool, lid, sample))
	}
}

func (c *Controller) doGetPut(value int) {
	if value == 0 {
		return
	}
	if tool, lid, sample, ok := c.puckParams(CmdGetPut); ok {
		c.Enqueue(protocol.GetPut(tool, lid, sample))
	}
}

func (c *Controller) doGet(value int) {
	if value == 0 {
		return
	}
	tool := c.store.Int(ParTool)
	if tool != c.tools.Puck {
		c.skip(CmdGet, "wrong_tool")
		return
	}
	c.Enqueue(protocol.Get(tool))
}

// ---- plates ----

// plateTool returns the selected tool when plates are enabled and the
// plate tool is selected.
func (c *Controller) plateTool(field string) (int, bool) {
	tool := c.store.Int(ParTool)
	switch {
	case c.store.Int(FieldPlatesEnabled) == 0:
		c.skip(field, "plates_disabled")
	case tool != c.tools.Plate:
		c.skip(field, "wrong_tool")
	default:
		return tool, true
	}
	return 0, false
}

// plateSelection returns the selected plate and well when the plate type
// is one the tool can carry.
func (c *Controller) plateSelection(field string) (plate, well, plateType int, ok bool) {
	plate, well, plateType = c.store.Int(ParPlate), c.store.Int(ParWell), c.store.Int(ParPlateType)
	switch {
	case plate == 0:
		c.skip(field, "no_plate")
	case !c.plateTypes[plateType]:
		c.skip(field, "plate_type")
	default:
		ok = true
	}
	return
}

func (c *Controller) doPutPlate(value int) {
	if value == 0 {
		return
	}
	tool, ok := c.plateTool(CmdPutPlate)
	if !ok {
		return
	}
	if plate, well, plateType, ok := c.plateSelection(CmdPutPlate); ok {
		c.Enqueue(protocol.PutPlate(tool, plate, well, plateType))
	}
}

func (c *Controller) doGetPutPlate(value int) {
	if value == 0 {
		return
	}
	tool, ok := c.plateTool(CmdGetPutPlate)
	if !ok {
		return
	}
	if plate, well, plateType, ok := c.plateSelection(CmdGetPutPlate); ok {
		c.Enqueue(protocol.GetPutPlate(tool, plate, well, plateType, c.store.Int(ParDrop)))
	}
}

func (c *Controller) doGetPlate(value int) {
	if value == 0 {
		return
	}
	tool := c.store.Int(ParTool)
	if tool != c.tools.Plate {
		c.skip(CmdGetPlate, "wrong_tool")
		return
	}
	c.Enqueue(protocol.GetPlate(tool))
}

func (c *Controller) doAdjust(value int) {
	if value == 0 {
		return
	}
	if tool, ok := c.plateTool(CmdAdjust); ok {
		c.Enqueue(protocol.Adjust(tool, c.store.Float(ParAdjustX), c.store.Float(ParAdjustY)))
	}
}

func (c *Controller) doTilt(value int) {
	if value == 0 {
		return
	}
	if tool, ok := c.plateTool(CmdTilt); ok {
		c.Enqueue(protocol.PlateAngle(tool, c.store.Float(ParAngle)))
	}
}

func (c *Controller) doFocus(value int) {
	if value == 0 {
		return
	}
	if tool, ok := c.plateTool(CmdFocus); ok {
		c.Enqueue(protocol.Focus(tool, c.store.Float(ParAdjustZ)))
	}
}

func (c *Controller) exposure() protocol.Exposure {
	return protocol.Exposure{
		Start:    c.store.Float(ParStart),
		Delta:    c.store.Float(ParDelta),
		Exposure: c.store.Float(ParExposure),
		Steps:    c.store.Int(ParSteps),
		End:      c.store.Float(ParEnd),
	}
}

func (c *Controller) doExpose(value int) {
	if value == 0 {
		return
	}
	if tool, ok := c.plateTool(CmdExpose); ok {
		c.Enqueue(protocol.Expose(tool, c.exposure()))
	}
}

func (c *Controller) doCollect(value int) {
	if value == 0 {
		return
	}
	if tool, ok := c.plateTool(CmdCollect); ok {
		c.Enqueue(protocol.Collect(tool, c.exposure()))
	}
}

// ---- mount / dismount ----

// doMount moves the sample at PAR:nextPort onto the diffractometer,
// swapping out whatever is there.
func (c *Controller) doMount(value int) {
	if value == 0 {
		return
	}
	loc := location.Parse(c.store.Text(ParNextPort), c.tools)
	if !loc.Valid() {
		c.skip(CmdMount, "invalid_port")
		return
	}

	switch loc.Kind {
	case location.KindPuck:
		if strings.TrimSpace(c.store.Text(FieldMounted)) == "" {
			c.Enqueue(protocol.Put(loc.Tool, loc.Lid, loc.Sample))
		} else {
			c.Enqueue(protocol.GetPut(loc.Tool, loc.Lid, loc.Sample))
		}
	case location.KindPlate:
		put := protocol.PutPlate(loc.Tool, loc.Plate, loc.Well, c.store.Int(ParPlateType))
		if strings.TrimSpace(c.store.Text(FieldOnTool)) == "" {
			c.Enqueue(put)
		} else {
			// swap without a drop position
			c.Enqueue(protocol.NewCommand("getputplate", put.Args...))
		}
	}
}

// doDismount returns the mounted sample using the tool of its family.
func (c *Controller) doDismount(value int) {
	if value == 0 {
		return
	}
	loc := location.Parse(c.store.Text(FieldMounted), c.tools)
	if !loc.Valid() {
		c.skip(CmdDismount, "nothing_mounted")
		return
	}

	switch loc.Kind {
	case location.KindPuck:
		c.Enqueue(protocol.Get(loc.Tool))
	case location.KindPlate:
		c.Enqueue(protocol.GetPlate(loc.Tool))
	}
}
