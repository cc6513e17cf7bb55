// internal/bridge/fields.go
package bridge

import (
	"github.com/tamzrod/cats-bridge/internal/location"
	"github.com/tamzrod/cats-bridge/internal/pvstore"
)

// Process variable names.
const (
	FieldConnected = "CONNECTED"
	FieldEnabled   = "ENABLED"
	FieldStatus    = "STATUS"
	FieldLog       = "LOG"
	FieldLogAlarm  = "LOG:ALARM"
	FieldWarning   = "WARNING"

	FieldApproach = "SAFETY:APPROACH"
	FieldPrepare  = "SAFETY:PREPARE"

	FieldInputs     = "STATE:inputs"
	FieldOutputs    = "STATE:outputs"
	FieldPower      = "STATE:power"
	FieldAutoMode   = "STATE:auto"
	FieldDefault    = "STATE:default"
	FieldTool       = "STATE:tool"
	FieldPath       = "STATE:path"
	FieldToolLid    = "STATE:toolLid"
	FieldDiffLid    = "STATE:diffLid"
	FieldToolSample = "STATE:toolSmpl"
	FieldDiffSample = "STATE:diffSmpl"
	FieldPlate      = "STATE:plate"
	FieldWell       = "STATE:well"
	FieldBarcode    = "STATE:barcode"
	FieldRunning    = "STATE:running"
	FieldDewar1LN2  = "STATE:D1LN2"
	FieldDewar2LN2  = "STATE:D2LN2"
	FieldSpeed      = "STATE:speed"
	FieldPucks1     = "STATE:pucks1"
	FieldPucks2     = "STATE:pucks2"
	FieldPosDewar1  = "STATE:pos1"
	FieldPosDewar2  = "STATE:pos2"
	FieldMounted    = "STATE:onDiff"
	FieldOnTool     = "STATE:onTool"

	FieldPlatesEnabled = "OPT:plates"

	ParNextPort  = "PAR:nextPort"
	ParLid       = "PAR:lid"
	ParSample    = "PAR:smpl"
	ParTool      = "PAR:tool"
	ParPlate     = "PAR:plate"
	ParWell      = "PAR:well"
	ParPlateType = "PAR:plateType"
	ParDrop      = "PAR:drop"
	ParAdjustX   = "PAR:adjustX"
	ParAdjustY   = "PAR:adjustY"
	ParAdjustZ   = "PAR:adjustZ"
	ParAngle     = "PAR:plateAng"
	ParStart     = "PAR:startAng"
	ParDelta     = "PAR:delta"
	ParExposure  = "PAR:exposure"
	ParSteps     = "PAR:steps"
	ParEnd       = "PAR:endAng"

	CmdPower       = "CMD:power"
	CmdLid         = "CMD:lid"
	CmdPut         = "CMD:put"
	CmdGet         = "CMD:get"
	CmdGetPut      = "CMD:getPut"
	CmdPause       = "CMD:pause"
	CmdSetTool     = "CMD:setTool"
	CmdToolCal     = "CMD:toolCal"
	CmdBack        = "CMD:back"
	CmdClear       = "CMD:clear"
	CmdAbort       = "CMD:abort"
	CmdSetSample   = "CMD:setSample"
	CmdHome        = "CMD:home"
	CmdPutPlate    = "CMD:putPlate"
	CmdGetPlate    = "CMD:getPlate"
	CmdGetPutPlate = "CMD:getPutPlate"
	CmdAdjust      = "CMD:adjPlate"
	CmdTilt        = "CMD:tiltPlate"
	CmdFocus       = "CMD:focus"
	CmdExpose      = "CMD:expose"
	CmdCollect     = "CMD:collect"
	CmdRestart     = "CMD:restart"
	CmdDismount    = "CMD:dismount"
	CmdMount       = "CMD:mount"
)

// Composite status values written to STATUS.
const (
	StatusIdle = iota
	StatusWaiting
	StatusBusy
	StatusError
)

// Fields is the process variable catalog of one robot.
func Fields() []pvstore.Field {
	i := func(name string, def int, desc string) pvstore.Field {
		return pvstore.Field{Name: name, Kind: pvstore.KindInt, Default: def, Desc: desc}
	}
	f := func(name, units, desc string) pvstore.Field {
		return pvstore.Field{Name: name, Kind: pvstore.KindFloat, Units: units, Desc: desc}
	}
	s := func(name, def, desc string) pvstore.Field {
		return pvstore.Field{Name: name, Kind: pvstore.KindString, Default: def, Desc: desc}
	}
	b := func(name, desc string) pvstore.Field {
		return pvstore.Field{Name: name, Kind: pvstore.KindBits, Desc: desc}
	}

	return []pvstore.Field{
		i(FieldConnected, 0, "Robot Connection"),
		i(FieldEnabled, 1, "Robot Control"),
		i(FieldStatus, StatusIdle, "Robot Status"),
		s(FieldLog, "", "Sample Operation Message"),
		i(FieldLogAlarm, 0, "Log Level"),
		s(FieldWarning, "", "Warning message"),

		i(FieldApproach, 0, "Robot Approaching"),
		i(FieldPrepare, 0, "Prepare for Approach"),

		b(FieldInputs, "Digital Inputs"),
		b(FieldOutputs, "Digital Outputs"),
		i(FieldPower, 0, "Robot Power"),
		i(FieldAutoMode, 0, "Auto Mode"),
		i(FieldDefault, 0, "Default Status"),
		i(FieldTool, 0, "Tool Status"),
		s(FieldPath, "", "Path Name"),
		i(FieldToolLid, 0, "On tool lid"),
		i(FieldDiffLid, 0, "On Diff lid"),
		i(FieldToolSample, 0, "On tool Sample"),
		i(FieldDiffSample, 0, "On Diff Sample"),
		i(FieldPlate, 0, "Plate Status"),
		i(FieldWell, 0, "Well Status"),
		s(FieldBarcode, "", "Barcode Status"),
		i(FieldRunning, 0, "Path Running"),
		i(FieldDewar1LN2, 0, "Dewar 1 LN2"),
		i(FieldDewar2LN2, 0, "Dewar 2 LN2"),
		i(FieldSpeed, 0, "Speed Ratio"),
		s(FieldPucks1, "", "Puck Detection 1"),
		s(FieldPucks2, "", "Puck Detection 2"),
		i(FieldPosDewar1, 0, "Position Dewar 1"),
		i(FieldPosDewar2, 0, "Position Dewar 2"),
		s(FieldMounted, "", "Mounted"),
		s(FieldOnTool, "", "Picked"),

		i(FieldPlatesEnabled, 0, "Plates Enabled"),

		s(ParNextPort, "", "Port"),
		i(ParLid, 0, "Selected Lid"),
		i(ParSample, 0, "Selected Sample"),
		i(ParTool, location.DefaultTools.Puck, "Selected Tool"),
		i(ParPlate, 0, "Selected Plate"),
		i(ParWell, 0, "Selected Well"),
		i(ParPlateType, 0, "Plate Type"),
		i(ParDrop, 0, "Plate Drop Place"),
		f(ParAdjustX, "mm", "X Adjust"),
		f(ParAdjustY, "mm", "Y Adjust"),
		f(ParAdjustZ, "mm", "Z Adjust"),
		f(ParAngle, "deg", "Plate Angle"),
		f(ParStart, "deg", "Start Angle"),
		f(ParDelta, "deg", "Delta Angle"),
		f(ParExposure, "sec", "Exposure Time"),
		i(ParSteps, 0, "Exposure Steps"),
		f(ParEnd, "deg", "End Angle"),

		i(CmdPower, 0, "Power"),
		i(CmdLid, 0, "Lid Toggle"),
		i(CmdPut, 0, "Put Pin"),
		i(CmdGet, 0, "Get Pin"),
		i(CmdGetPut, 0, "Get Put Pin"),
		i(CmdPause, 0, "Pause"),
		i(CmdSetTool, 0, "Set Tool"),
		i(CmdToolCal, 0, "Cal Tool"),
		i(CmdBack, 0, "Back"),
		i(CmdClear, 0, "Clear"),
		i(CmdAbort, 0, "Abort"),
		i(CmdSetSample, 0, "Set Sample"),
		i(CmdHome, 0, "Home"),
		i(CmdPutPlate, 0, "Put Plate"),
		i(CmdGetPlate, 0, "Get Plate"),
		i(CmdGetPutPlate, 0, "Get Put Plate"),
		i(CmdAdjust, 0, "Adjust Plate"),
		i(CmdTilt, 0, "Tilt Plate"),
		i(CmdFocus, 0, "Focus Plate"),
		i(CmdExpose, 0, "Expose"),
		i(CmdCollect, 0, "Collect"),
		i(CmdRestart, 0, "Restart"),
		i(CmdDismount, 0, "Dismount"),
		i(CmdMount, 0, "Mount"),
	}
}

// NewStore builds a store holding the robot catalog.
func NewStore() (*pvstore.Store, error) {
	return pvstore.New(Fields())
}
