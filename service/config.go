package service

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	defaultApiPort   = "8080"
	defaultAdminPort = "8081"
	defaultDBPath    = "user-device"
)

type Config struct {
	ApiPort   string      `mapstructure:"api-port"`
	AdminPort string      `mapstructure:"admin-port"`
	DBPath    string      `mapstructure:"db"`
	Apns      *ApnsConfig `mapstructure:"apns"`
}

type ApnsConfig struct {
	KeyFile string `mapstructure:"key-file"`
	KeyID   string `mapstructure:"key-id"`
	TeamID  string `mapstructure:"team-id"`
	Topic   string `mapstructure:"topic"`
	Workers int    `mapstructure:"workers"`

	// Host overrides the gateway address. Used by tests to talk to a fake
	// upstream.
	Host string `mapstructure:"host"`
}

// Overrides are explicit startup settings that win over file values. An
// empty field means "no override".
type Overrides struct {
	ApiPort   string
	AdminPort string
	DBPath    string
	KeyFile   string
	KeyID     string
	TeamID    string
	Topic     string
}

// NewConfig resolves the layered runtime configuration: built-in defaults,
// overridden by file contents, overridden by explicit overrides. The result
// is immutable after startup.
func NewConfig(src *viper.Viper, over *Overrides) (*Config, error) {

	c := &Config{
		ApiPort:   defaultApiPort,
		AdminPort: defaultAdminPort,
		DBPath:    defaultDBPath,
		Apns:      &ApnsConfig{},
	}

	if err := src.Unmarshal(c); err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	if c.Apns == nil {
		c.Apns = &ApnsConfig{}
	}

	if over != nil {
		applyOverrides(c, over)
	}

	if c.ApiPort == "" {
		return nil, errors.New("invalid `api-port`")
	}
	if c.DBPath == "" {
		return nil, errors.New("invalid `db`")
	}

	return c, nil
}

func applyOverrides(c *Config, over *Overrides) {

	if over.ApiPort != "" {
		c.ApiPort = over.ApiPort
	}
	if over.AdminPort != "" {
		c.AdminPort = over.AdminPort
	}
	if over.DBPath != "" {
		c.DBPath = over.DBPath
	}
	if over.KeyFile != "" {
		c.Apns.KeyFile = over.KeyFile
	}
	if over.KeyID != "" {
		c.Apns.KeyID = over.KeyID
	}
	if over.TeamID != "" {
		c.Apns.TeamID = over.TeamID
	}
	if over.Topic != "" {
		c.Apns.Topic = over.Topic
	}
}
