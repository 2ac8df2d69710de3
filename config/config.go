// Package config loads the boot configuration SPEC_FULL.md's AMBIENT
// STACK section adds on top of spec.md's compiled-in defaults: the
// registered-tag table, the uplink server address, and the two UART
// device paths. It is grounded on jbrzusto-ogdar's config.go, which
// loads board parameters with viper.SetConfigName/AddConfigPath/
// UnmarshalKey the same way; PharmaTracker's file is named
// pharmatracker.yaml instead of ogdar.toml and its defaults are the
// registry table of spec §6 rather than radar digitizer registers.
package config

import (
	"github.com/spf13/viper"

	"pharmatracker.io/registry"
	"pharmatracker.io/uplink"
)

// Tag is one registered-tag default entry.
type Tag struct {
	ID      string `mapstructure:"id"`
	MaxTime int    `mapstructure:"max_time"`
}

// Config is the full set of boot-time parameters.
type Config struct {
	Tags       []Tag  `mapstructure:"tags"`
	UplinkHost string `mapstructure:"uplink_host"`
	UplinkPort int    `mapstructure:"uplink_port"`
	UARTRFID   string `mapstructure:"uart_rfid"`
	UARTWifi   string `mapstructure:"uart_wifi"`
}

// Defaults is the wired default table of spec §6: "Reference defaults:
// two entries with hard-coded ids and budgets." The ids match the
// scenarios of spec §8.
var Defaults = Config{
	Tags: []Tag{
		{ID: "3100037D93", MaxTime: 5 * 60},
		{ID: "66006C4B7F", MaxTime: 10 * 60},
	},
	UplinkHost: "192.168.4.1",
	UplinkPort: 80,
	UARTRFID:   "/dev/ttyAMA0",
	UARTWifi:   "/dev/ttyUSB0",
}

// Load reads pharmatracker.yaml from the working directory or /opt (the
// top level of the reference board's SD card, mirroring ogdar's lookup
// path), falling back to Defaults if no file is found or it fails to
// parse. It never returns an error: an unreadable or malformed config
// file is not fatal, the appliance boots from the wired table per spec
// §6 ("Persisted state: None... restored only from the wired default
// table").
func Load() Config {
	return load("")
}

// LoadFrom is Load, but searches dir before /opt and the working
// directory, for the -config flag of cmd/pharmatracker.
func LoadFrom(dir string) Config {
	return load(dir)
}

func load(extraDir string) Config {
	viper.SetConfigName("pharmatracker")
	if extraDir != "" {
		viper.AddConfigPath(extraDir)
	}
	viper.AddConfigPath("/opt")
	viper.AddConfigPath(".")
	cfg := Defaults
	if err := viper.ReadInConfig(); err != nil {
		return cfg
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return Defaults
	}
	if len(cfg.Tags) == 0 {
		cfg.Tags = Defaults.Tags
	}
	return cfg
}

// RegistryTags converts the configured defaults into registry.Tag
// values for registry.New.
func (c Config) RegistryTags() []registry.Tag {
	tags := make([]registry.Tag, len(c.Tags))
	for i, t := range c.Tags {
		tags[i] = registry.Tag{ID: t.ID, MaxTime: t.MaxTime}
	}
	return tags
}

// ServerAddr returns the configured uplink endpoint.
func (c Config) ServerAddr() uplink.ServerAddr {
	return uplink.ServerAddr{Host: c.UplinkHost, Port: c.UplinkPort}
}
