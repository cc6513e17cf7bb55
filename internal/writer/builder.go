// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	cfg "github.com/tamzrod/cats-bridge/internal/config"
	wingest "github.com/tamzrod/cats-bridge/internal/writer/ingest"
	wmodbus "github.com/tamzrod/cats-bridge/internal/writer/modbus"
)

// BuildPlan converts the mirror config into a writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(m cfg.MirrorConfig, device string) (Plan, error) {
	if device == "" {
		return Plan{}, errors.New("writer: device required")
	}

	plan := Plan{Device: device}

	for _, t := range m.Targets {
		plan.Targets = append(plan.Targets, StatusPlan{
			Endpoint:       t.Endpoint,
			Protocol:       t.Protocol,
			UnitID:         t.UnitID,
			BaseSlot:       t.BaseSlot,
			DeviceName:     device,
			InputsAddress:  t.InputsAddress,
			OutputsAddress: t.OutputsAddress,
			BitCount:       t.BitCount,
		})
	}

	return plan, nil
}

// Build creates the mirror and one client per unique protocol and endpoint.
// The returned func closes every client.
func Build(m cfg.MirrorConfig, device string) (*Mirror, func() error, error) {
	plan, err := BuildPlan(m, device)
	if err != nil {
		return nil, nil, err
	}

	timeout := time.Duration(m.TimeoutMs) * time.Millisecond

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for _, sp := range plan.Targets {
		key := clientKey(sp.Protocol, sp.Endpoint)
		if _, ok := clients[key]; ok {
			continue
		}

		switch sp.Protocol {
		case "ingest":
			c, err := wingest.NewEndpointClient(wingest.Config{Endpoint: sp.Endpoint, Timeout: timeout})
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			clients[key] = c
			closers = append(closers, c.Close)

		default:
			c, err := wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: sp.Endpoint, Timeout: timeout})
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			clients[key] = c
			closers = append(closers, c.Close)
		}
	}

	mirror, err := New(plan, clients)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}

	return mirror, closeAll, nil
}
