// internal/config/config.go
package config

type Config struct {
	Device string       `yaml:"device"`
	Robot  RobotConfig  `yaml:"robot"`
	Log    LogConfig    `yaml:"log"`
	HTTP   HTTPConfig   `yaml:"http"`
	Redis  RedisConfig  `yaml:"redis"`
	Mirror MirrorConfig `yaml:"mirror"`
}

// ---- ROBOT ----

type RobotConfig struct {
	Address     string `yaml:"address"`
	CommandPort int    `yaml:"command_port"`
	StatusPort  int    `yaml:"status_port"`
	Delimiter   string `yaml:"delimiter"`

	DialTimeoutMs      int `yaml:"dial_timeout_ms"`
	WriteTimeoutMs     int `yaml:"write_timeout_ms"`
	ReconnectInitialMs int `yaml:"reconnect_initial_ms"`
	ReconnectMaxMs     int `yaml:"reconnect_max_ms"`

	StatusIntervalMs int `yaml:"status_interval_ms"`
	PowerOnDelayMs   int `yaml:"power_on_delay_ms"`

	// Tool and plate type numbering is controller specific.
	Tools      ToolsConfig `yaml:"tools"`
	PlateTypes []int       `yaml:"plate_types"`
}

type ToolsConfig struct {
	Puck  int `yaml:"puck"`
	Plate int `yaml:"plate"`
}

// ---- LOG ----

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // text | json
	File       string `yaml:"file"`   // empty => stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ---- HTTP ----

type HTTPConfig struct {
	Listen string `yaml:"listen"` // empty => disabled
}

// ---- REDIS ----

type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// ---- MIRROR ----

type MirrorConfig struct {
	IntervalMs int            `yaml:"interval_ms"`
	TimeoutMs  int            `yaml:"timeout_ms"`
	Targets    []TargetConfig `yaml:"targets"`
}

type TargetConfig struct {
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"` // modbus | ingest
	UnitID   uint8  `yaml:"unit_id"`
	BaseSlot uint16 `yaml:"base_slot"`

	// Coil mirrors of the digital I/O bit fields (optional).
	InputsAddress  *uint16 `yaml:"inputs_address"`
	OutputsAddress *uint16 `yaml:"outputs_address"`
	BitCount       uint16  `yaml:"bit_count"`
}
