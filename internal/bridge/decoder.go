// internal/bridge/decoder.go
package bridge

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tamzrod/cats-bridge/internal/location"
	"github.com/tamzrod/cats-bridge/internal/protocol"
)

// converter turns one raw state field into a store value.
type converter func(raw string) (any, error)

// stateSlot binds one positional state field to a store field.
// An empty field name skips the position.
type stateSlot struct {
	field   string
	convert converter
}

// stateLayout is the positional order of the state telegram.
var stateLayout = []stateSlot{
	{FieldPower, strictInt},
	{FieldAutoMode, strictInt},
	{FieldDefault, strictInt},
	{FieldTool, lenientInt},
	{FieldPath, passthrough},
	{FieldToolLid, lenientInt},
	{FieldToolSample, lenientInt},
	{"", nil}, // unused by the bridge
	{FieldDiffLid, lenientInt},
	{FieldDiffSample, lenientInt},
	{FieldPlate, lenientInt},
	{FieldWell, lenientInt},
	{FieldBarcode, passthrough},
	{FieldRunning, strictInt},
	{FieldDewar1LN2, strictInt},
	{FieldDewar2LN2, strictInt},
	{FieldSpeed, strictInt},
	{FieldPucks1, passthrough},
	{FieldPucks2, passthrough},
	{FieldPosDewar1, lenientInt},
	{FieldPosDewar2, lenientInt},
}

func strictInt(raw string) (any, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("bridge: %q is not an integer", raw)
	}
	return v, nil
}

func lenientInt(raw string) (any, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, nil
	}
	return v, nil
}

func passthrough(raw string) (any, error) {
	return raw, nil
}

// decode applies one status channel line to the store.
// Lines that do not follow the telegram grammar are ignored.
func (c *Controller) decode(line string) {
	tg, ok := protocol.ParseTelegram(line)
	if !ok {
		c.metrics.DecodeError()
		c.log.WithField("line", line).Debug("unrecognized status line")
		return
	}
	c.metrics.Telegram(tg.Context)

	switch tg.Context {
	case protocol.ContextState:
		c.decodeState(tg)
	case protocol.ContextInputs:
		c.decodeBits(tg, FieldInputs)
	case protocol.ContextOutputs:
		c.decodeBits(tg, FieldOutputs)
	default:
		// position and unknown contexts are accepted but not decoded
	}
}

func (c *Controller) decodeState(tg protocol.Telegram) {
	c.lastState.Store(time.Now().UnixNano())

	for i, raw := range tg.Fields() {
		if i >= len(stateLayout) {
			break
		}
		slot := stateLayout[i]
		if slot.field == "" {
			continue
		}
		v, err := slot.convert(raw)
		if err != nil {
			c.metrics.DecodeError()
			c.log.WithError(err).
				WithField("field", slot.field).
				WithField("telegram", tg.Payload).
				Warn("unable to parse state")
			continue
		}
		c.put(slot.field, v)
	}

	c.put(FieldStatus, compositeStatus(
		c.store.Int(FieldAutoMode),
		c.store.Int(FieldDefault),
		c.store.Int(FieldRunning),
	))

	c.put(FieldMounted, location.PinPort(
		c.store.Int(FieldDiffLid),
		c.store.Int(FieldDiffSample),
	))
	c.put(FieldOnTool, onTool(
		c.store.Int(FieldToolLid),
		c.store.Int(FieldToolSample),
		c.store.Int(FieldPlate),
		c.store.Int(FieldWell),
	))
}

func (c *Controller) decodeBits(tg protocol.Telegram, field string) {
	v, err := protocol.DecodeBits(tg.Payload)
	if err != nil {
		c.metrics.DecodeError()
		c.log.WithError(err).WithField("field", field).Warn("unable to parse bit field")
		return
	}
	c.put(field, v)
}

// compositeStatus is BUSY or IDLE in auto and default mode, ERROR otherwise.
func compositeStatus(auto, def, running int) int {
	if auto != 1 || def != 1 {
		return StatusError
	}
	if running != 0 {
		return StatusBusy
	}
	return StatusIdle
}

// onTool prefers the pin on the tool and falls back to the plate.
func onTool(lid, sample, plate, well int) string {
	if port := location.PinPort(lid, sample); port != "" {
		return port
	}
	return location.PlatePort(plate, well)
}
