package config

import (
	"fmt"
	"time"

	"github.com/OCAP2/skirmish/internal/unit"
	"github.com/spf13/viper"
)

// ConfigFileName is the file Load looks for in the config directory.
const ConfigFileName = "skirmish.cfg.json"

// BoardConfig holds the default match dimensions.
type BoardConfig struct {
	Rows int `json:"rows" mapstructure:"rows"`
	Cols int `json:"cols" mapstructure:"cols"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite journal settings. An empty Path keeps the
// database in memory; DumpPath then receives a VACUUM INTO snapshot on close.
type SQLiteConfig struct {
	Path     string `json:"path" mapstructure:"path"`
	DumpPath string `json:"dumpPath" mapstructure:"dumpPath"`
}

// PostgresConfig holds connection settings for the Postgres journal.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// InfluxConfig holds InfluxDB connection settings.
type InfluxConfig struct {
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
	Bucket   string `json:"bucket" mapstructure:"bucket"`

	// BackupPath receives gzipped line protocol when the server is unreachable.
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// URL returns the server address built from protocol, host and port.
func (c InfluxConfig) URL() string {
	return fmt.Sprintf("%s://%s:%s", c.Protocol, c.Host, c.Port)
}

// StorageConfig selects and configures the journal backend.
type StorageConfig struct {
	Type     string         `json:"type" mapstructure:"type"`
	Tag      string         `json:"tag" mapstructure:"tag"`
	Memory   MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
	Influx   InfluxConfig   `json:"influx" mapstructure:"influx"`
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SetDefaults registers every default value. Load calls it; tests that do not
// read a file can call it directly.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./skirmishlogs")
	viper.SetDefault("defaultTag", "Skirmish")

	viper.SetDefault("board.rows", 5)
	viper.SetDefault("board.cols", 5)

	rules := unit.DefaultRules()
	viper.SetDefault("rules.soldier.movement", rules.Soldier.Movement)
	viper.SetDefault("rules.soldier.magazine", rules.Soldier.Magazine)
	viper.SetDefault("rules.soldier.splashRadiusDivisor", rules.Soldier.SplashRadiusDivisor)
	viper.SetDefault("rules.soldier.splashDamageDivisor", rules.Soldier.SplashDamageDivisor)
	viper.SetDefault("rules.medic.movement", rules.Medic.Movement)
	viper.SetDefault("rules.medic.magazine", rules.Medic.Magazine)
	viper.SetDefault("rules.sniper.movement", rules.Sniper.Movement)
	viper.SetDefault("rules.sniper.magazine", rules.Sniper.Magazine)
	viper.SetDefault("rules.sniper.minRangeDivisor", rules.Sniper.MinRangeDivisor)
	viper.SetDefault("rules.sniper.comboForBonus", rules.Sniper.ComboForBonus)
	viper.SetDefault("rules.sniper.critMultiplier", rules.Sniper.CritMultiplier)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./matches")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "skirmish")

	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "skirmish")
	viper.SetDefault("influx.bucket", "match_actions")
	viper.SetDefault("influx.backupPath", "./skirmishlogs/influx_backup.lp.gz")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "skirmish")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(ConfigFileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetBoardConfig returns the default board dimensions.
func GetBoardConfig() BoardConfig {
	return BoardConfig{
		Rows: viper.GetInt("board.rows"),
		Cols: viper.GetInt("board.cols"),
	}
}

// GetRules returns the unit rules, validated.
func GetRules() (unit.Rules, error) {
	var r unit.Rules
	if err := viper.UnmarshalKey("rules", &r); err != nil {
		return unit.Rules{}, fmt.Errorf("error decoding rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return unit.Rules{}, err
	}
	return r, nil
}

// GetStorageConfig returns the journal backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Tag:  viper.GetString("defaultTag"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:     viper.GetString("storage.sqlite.path"),
			DumpPath: viper.GetString("storage.sqlite.dumpPath"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
		Influx: GetInfluxConfig(),
	}
}

// GetInfluxConfig returns InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),
		Bucket:   viper.GetString("influx.bucket"),

		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetOTelConfig returns OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
