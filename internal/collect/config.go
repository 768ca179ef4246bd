package collect

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sensorlog-go/x/mathx"
	"sensorlog-go/x/strx"
)

// Config is the top-level YAML document for logcollect.
type Config struct {
	Collector CollectorConfig `yaml:"collector"`
}

type CollectorConfig struct {
	Ports []PortConfig `yaml:"ports"`
	// IntervalS paces 'u' requests across all devices, in seconds.
	IntervalS int `yaml:"interval_s"`
	// Output is the base path for the timestamped CSV file.
	Output string `yaml:"output"`
}

type PortConfig struct {
	Device string `yaml:"device"` // e.g. /dev/ttyACM0
	Baud   int    `yaml:"baud"`
}

// LoadConfig reads, parses, normalizes and validates a config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("collect: parsing %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Collector.IntervalS = mathx.Clamp(c.Collector.IntervalS, 1, 3600)
	c.Collector.Output = strx.Coalesce(c.Collector.Output, "sensor_readings")
	for i := range c.Collector.Ports {
		if c.Collector.Ports[i].Baud == 0 {
			c.Collector.Ports[i].Baud = 115200
		}
	}
}

func (c *Config) validate() error {
	if len(c.Collector.Ports) == 0 {
		return fmt.Errorf("collect: no ports configured")
	}
	for i, p := range c.Collector.Ports {
		if p.Device == "" {
			return fmt.Errorf("collect: ports[%d]: device is required", i)
		}
		if p.Baud < 0 {
			return fmt.Errorf("collect: ports[%d]: bad baud %d", i, p.Baud)
		}
	}
	return nil
}
