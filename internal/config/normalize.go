// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultDelimiter          = "\r"
	DefaultDialTimeoutMs      = 2000
	DefaultWriteTimeoutMs     = 2000
	DefaultReconnectInitialMs = 500
	DefaultReconnectMaxMs     = 10000
	DefaultStatusIntervalMs   = 100
	DefaultPowerOnDelayMs     = 1000

	DefaultPuckTool  = 2
	DefaultPlateTool = 3

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	DefaultRedisPrefix = "cats"

	DefaultMirrorIntervalMs = 1000
	DefaultMirrorTimeoutMs  = 1000
	DefaultBitCount         = 16

	// status block holds 8 registers of ASCII, 2 chars each
	MaxDeviceNameLen = 16
)

// DefaultPlateTypes lists the plate types the plate tool can carry.
var DefaultPlateTypes = []int{1, 2}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device == "" {
		cfg.Device = "CATS"
	}
	// ASCII already validated
	if len(cfg.Device) > MaxDeviceNameLen {
		cfg.Device = cfg.Device[:MaxDeviceNameLen]
	}

	r := &cfg.Robot
	if r.Delimiter == "" {
		r.Delimiter = DefaultDelimiter
	}
	def(&r.DialTimeoutMs, DefaultDialTimeoutMs)
	def(&r.WriteTimeoutMs, DefaultWriteTimeoutMs)
	def(&r.ReconnectInitialMs, DefaultReconnectInitialMs)
	def(&r.ReconnectMaxMs, DefaultReconnectMaxMs)
	if r.ReconnectMaxMs < r.ReconnectInitialMs {
		r.ReconnectMaxMs = r.ReconnectInitialMs
	}
	def(&r.StatusIntervalMs, DefaultStatusIntervalMs)
	def(&r.PowerOnDelayMs, DefaultPowerOnDelayMs)
	def(&r.Tools.Puck, DefaultPuckTool)
	def(&r.Tools.Plate, DefaultPlateTool)
	if len(r.PlateTypes) == 0 {
		r.PlateTypes = append([]int(nil), DefaultPlateTypes...)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisPrefix
	}

	def(&cfg.Mirror.IntervalMs, DefaultMirrorIntervalMs)
	def(&cfg.Mirror.TimeoutMs, DefaultMirrorTimeoutMs)
	for i := range cfg.Mirror.Targets {
		t := &cfg.Mirror.Targets[i]
		if t.Protocol == "" {
			t.Protocol = "modbus"
		}
		if t.BitCount == 0 {
			t.BitCount = DefaultBitCount
		}
	}
}

func def(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}
