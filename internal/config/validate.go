// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/status"
)

// MaxBaseSlot is the highest base slot whose block still fits the
// 16-bit register address space.
const MaxBaseSlot = (0xFFFF - (status.SlotsPerDevice - 1)) / status.SlotsPerDevice

// Validate checks configuration correctness.
// It performs declarative validation only. Zero values are allowed where
// Normalize supplies a default.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// device name sanity (ASCII only, used in keys and the status block)
	for i := 0; i < len(cfg.Device); i++ {
		if cfg.Device[i] <= 0x20 || cfg.Device[i] > 0x7E {
			return fmt.Errorf("device %q: must contain printable ASCII without spaces", cfg.Device)
		}
	}

	// ------------------------------------------------------------
	// ROBOT
	// ------------------------------------------------------------

	r := cfg.Robot
	if strings.TrimSpace(r.Address) == "" {
		return fmt.Errorf("robot.address is required")
	}
	if err := port("robot.command_port", r.CommandPort); err != nil {
		return err
	}
	if err := port("robot.status_port", r.StatusPort); err != nil {
		return err
	}
	if r.CommandPort == r.StatusPort {
		return fmt.Errorf("robot.command_port and robot.status_port must differ (both %d)", r.CommandPort)
	}

	for name, v := range map[string]int{
		"robot.dial_timeout_ms":      r.DialTimeoutMs,
		"robot.write_timeout_ms":     r.WriteTimeoutMs,
		"robot.reconnect_initial_ms": r.ReconnectInitialMs,
		"robot.reconnect_max_ms":     r.ReconnectMaxMs,
		"robot.status_interval_ms":   r.StatusIntervalMs,
		"robot.power_on_delay_ms":    r.PowerOnDelayMs,
	} {
		if v < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, v)
		}
	}
	if r.ReconnectMaxMs > 0 && r.ReconnectInitialMs > r.ReconnectMaxMs {
		return fmt.Errorf(
			"robot.reconnect_initial_ms (%d) exceeds robot.reconnect_max_ms (%d)",
			r.ReconnectInitialMs,
			r.ReconnectMaxMs,
		)
	}

	if r.Tools.Puck < 0 || r.Tools.Plate < 0 {
		return fmt.Errorf("robot.tools must be >= 0")
	}
	if r.Tools.Puck != 0 && r.Tools.Puck == r.Tools.Plate {
		return fmt.Errorf("robot.tools.puck and robot.tools.plate must differ (both %d)", r.Tools.Puck)
	}
	for _, pt := range r.PlateTypes {
		// zero is the store's unset sentinel
		if pt <= 0 {
			return fmt.Errorf("robot.plate_types: %d is not a valid plate type", pt)
		}
	}

	// ------------------------------------------------------------
	// LOG
	// ------------------------------------------------------------

	if cfg.Log.Level != "" {
		if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log.level %q: %w", cfg.Log.Level, err)
		}
	}
	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", cfg.Log.Format)
	}

	// ------------------------------------------------------------
	// REDIS
	// ------------------------------------------------------------

	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required when redis is enabled")
	}

	// ------------------------------------------------------------
	// MIRROR TARGETS
	// ------------------------------------------------------------

	// key = endpoint | unit_id | base_slot
	owner := make(map[string]int)

	for i, t := range cfg.Mirror.Targets {
		if strings.TrimSpace(t.Endpoint) == "" {
			return fmt.Errorf("mirror.targets[%d]: endpoint is required", i)
		}
		switch t.Protocol {
		case "", "modbus", "ingest":
		default:
			return fmt.Errorf("mirror.targets[%d]: protocol %q must be modbus or ingest", i, t.Protocol)
		}

		if t.BaseSlot > MaxBaseSlot {
			return fmt.Errorf("mirror.targets[%d]: base_slot %d exceeds %d", i, t.BaseSlot, MaxBaseSlot)
		}

		key := fmt.Sprintf("%s|%d|%d", t.Endpoint, t.UnitID, t.BaseSlot)
		if prev, exists := owner[key]; exists {
			return fmt.Errorf(
				"status slot collision: endpoint=%s unit_id=%d base_slot=%d used by targets %d and %d",
				t.Endpoint,
				t.UnitID,
				t.BaseSlot,
				prev,
				i,
			)
		}
		owner[key] = i

		if t.InputsAddress != nil && t.OutputsAddress != nil {
			n := uint32(t.BitCount)
			if n == 0 {
				n = DefaultBitCount
			}
			a, b := uint32(*t.InputsAddress), uint32(*t.OutputsAddress)
			// overlap check (half-open)
			if a < b+n && b < a+n {
				return fmt.Errorf(
					"mirror.targets[%d]: inputs_address %d and outputs_address %d overlap (bit_count %d)",
					i, a, b, n,
				)
			}
		}
	}

	return nil
}

func port(name string, v int) error {
	if v <= 0 || v > 65535 {
		return fmt.Errorf("%s must be in 1..65535, got %d", name, v)
	}
	return nil
}
