package config

// Config holds craftlinkctl configuration values.
type Config struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Name     string `mapstructure:"name" yaml:"name"`
	Secret   string `mapstructure:"secret" yaml:"secret,omitempty"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Endpoint: "ws://localhost:5005/ws",
		Name:     "craftlink",
		LogLevel: "info",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Endpoint != "" {
		c.Endpoint = other.Endpoint
	}
	if other.Name != "" {
		c.Name = other.Name
	}
	if other.Secret != "" {
		c.Secret = other.Secret
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}
