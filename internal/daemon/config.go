// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package daemon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration structure. The YAML file
// seeds the variable store at startup; the store is the source of truth
// afterwards.
type Config struct {
	Device    DeviceConfig `yaml:"device"`
	API       APIConfig    `yaml:"api"`
	StorePath string       `yaml:"store_path"`
	Debug     bool         `yaml:"debug"`
}

// DeviceConfig describes the single television this daemon controls
type DeviceConfig struct {
	Host string `yaml:"host"`
	PSK  string `yaml:"psk"`
	MAC  string `yaml:"mac"` // optional, resolved from ARP when empty
}

// APIConfig contains the inbound command interface settings
type APIConfig struct {
	Listen string `yaml:"listen"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Device.Host == "" {
		return fmt.Errorf("device.host is required")
	}
	if c.Device.PSK == "" {
		return fmt.Errorf("device.psk is required")
	}
	if c.API.Listen == "" {
		return fmt.Errorf("api.listen is required")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path is required")
	}
	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filepath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewDefaultConfig creates a configuration template for first runs
func NewDefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Host: "192.168.1.100",
			PSK:  "0000",
		},
		API: APIConfig{
			Listen: ":8089",
		},
		StorePath: "braviad.db",
		Debug:     false,
	}
}
