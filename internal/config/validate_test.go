// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to build a minimal valid config
func valid() *Config {
	return &Config{
		Device: "cats1",
		Robot: RobotConfig{
			Address:     "10.0.0.5",
			CommandPort: 1000,
			StatusPort:  10000,
		},
	}
}

func u16(v uint16) *uint16 { return &v }

// ---- tests ----

func TestValidate_Minimal(t *testing.T) {
	assert.NoError(t, Validate(valid()))
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidate_RobotErrors(t *testing.T) {
	cases := map[string]func(c *Config){
		"no address":      func(c *Config) { c.Robot.Address = " " },
		"zero cmd port":   func(c *Config) { c.Robot.CommandPort = 0 },
		"big status port": func(c *Config) { c.Robot.StatusPort = 70000 },
		"same ports":      func(c *Config) { c.Robot.StatusPort = c.Robot.CommandPort },
		"negative poll":   func(c *Config) { c.Robot.StatusIntervalMs = -1 },
		"backoff order": func(c *Config) {
			c.Robot.ReconnectInitialMs = 5000
			c.Robot.ReconnectMaxMs = 100
		},
		"same tools": func(c *Config) {
			c.Robot.Tools = ToolsConfig{Puck: 3, Plate: 3}
		},
		"zero plate type": func(c *Config) { c.Robot.PlateTypes = []int{1, 0} },
		"device spaces":   func(c *Config) { c.Device = "my robot" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, Validate(c))
		})
	}
}

func TestValidate_LogAndRedis(t *testing.T) {
	c := valid()
	c.Log.Level = "chatty"
	assert.Error(t, Validate(c))

	c = valid()
	c.Log.Format = "xml"
	assert.Error(t, Validate(c))

	c = valid()
	c.Redis.Enabled = true
	assert.Error(t, Validate(c))

	c.Redis.Addr = "localhost:6379"
	assert.NoError(t, Validate(c))
}

func TestValidate_MirrorTargets(t *testing.T) {
	c := valid()
	c.Mirror.Targets = []TargetConfig{
		{Endpoint: "ep1", UnitID: 1, BaseSlot: 0},
		{Endpoint: "ep1", UnitID: 1, BaseSlot: 30},
		{Endpoint: "ep2", UnitID: 1, BaseSlot: 0},
	}
	require.NoError(t, Validate(c))

	c.Mirror.Targets = append(c.Mirror.Targets, TargetConfig{Endpoint: "ep1", UnitID: 1, BaseSlot: 30})
	assert.Error(t, Validate(c))
}

func TestValidate_BaseSlotFitsAddressSpace(t *testing.T) {
	c := valid()
	c.Mirror.Targets = []TargetConfig{{Endpoint: "ep1", BaseSlot: MaxBaseSlot}}
	require.NoError(t, Validate(c))
	assert.Equal(t, 2339, MaxBaseSlot)

	// 2341*28 wraps to register 12, inside the block of base_slot 0
	c.Mirror.Targets = []TargetConfig{
		{Endpoint: "ep1", BaseSlot: 0},
		{Endpoint: "ep1", BaseSlot: MaxBaseSlot + 2},
	}
	assert.Error(t, Validate(c))
}

func TestValidate_MirrorProtocol(t *testing.T) {
	c := valid()
	c.Mirror.Targets = []TargetConfig{{Endpoint: "ep1", Protocol: "opcua"}}
	assert.Error(t, Validate(c))

	c.Mirror.Targets[0].Protocol = "ingest"
	assert.NoError(t, Validate(c))
}

func TestValidate_BitMirrorOverlap(t *testing.T) {
	c := valid()
	c.Mirror.Targets = []TargetConfig{{
		Endpoint:       "ep1",
		InputsAddress:  u16(0),
		OutputsAddress: u16(8),
		BitCount:       16,
	}}
	assert.Error(t, Validate(c))

	c.Mirror.Targets[0].OutputsAddress = u16(16)
	assert.NoError(t, Validate(c))
}

func TestValidate_DoesNotMutate(t *testing.T) {
	c := valid()
	require.NoError(t, Validate(c))
	assert.Equal(t, "", c.Robot.Delimiter)
	assert.Equal(t, 0, c.Robot.Tools.Puck)
}

func TestNormalize_Defaults(t *testing.T) {
	c := valid()
	c.Device = "a-very-long-device-name"
	c.Mirror.Targets = []TargetConfig{{Endpoint: "ep1"}}
	require.NoError(t, Validate(c))
	Normalize(c)

	assert.Equal(t, "a-very-long-devi", c.Device)
	assert.Equal(t, "\r", c.Robot.Delimiter)
	assert.Equal(t, DefaultStatusIntervalMs, c.Robot.StatusIntervalMs)
	assert.Equal(t, DefaultPowerOnDelayMs, c.Robot.PowerOnDelayMs)
	assert.Equal(t, ToolsConfig{Puck: 2, Plate: 3}, c.Robot.Tools)
	assert.Equal(t, []int{1, 2}, c.Robot.PlateTypes)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Equal(t, "cats", c.Redis.KeyPrefix)
	assert.Equal(t, "modbus", c.Mirror.Targets[0].Protocol)
	assert.Equal(t, uint16(DefaultBitCount), c.Mirror.Targets[0].BitCount)
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	c := valid()
	c.Robot.Delimiter = "\n"
	c.Robot.Tools = ToolsConfig{Puck: 1, Plate: 4}
	c.Robot.PlateTypes = []int{5}
	Normalize(c)

	assert.Equal(t, "\n", c.Robot.Delimiter)
	assert.Equal(t, ToolsConfig{Puck: 1, Plate: 4}, c.Robot.Tools)
	assert.Equal(t, []int{5}, c.Robot.PlateTypes)
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("robot:\n  adress: x\n"))
	assert.Error(t, err)

	c, err := Parse([]byte("device: cats1\nrobot:\n  address: 10.0.0.5\n  command_port: 1000\n  status_port: 10000\n"))
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", c.Robot.Address)
	assert.NoError(t, Validate(c))
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	require.NoError(t, err)
	assert.NotNil(t, c)
}
