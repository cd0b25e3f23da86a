package testbed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	neonbridge "github.com/quietterminal/neon-bridge"
)

// Config holds the session settings the relay announces to joining
// clients.
type Config struct {
	ProtocolVersion uint8              `yaml:"protocol_version"`
	TickRate        uint16             `yaml:"tick_rate"`
	MaxPacketSize   uint16             `yaml:"max_packet_size"`
	MaxClients      int                `yaml:"max_clients"`
	PacketTypes     []PacketTypeConfig `yaml:"packet_types"`
}

// PacketTypeConfig is one packet-type registry entry.
type PacketTypeConfig struct {
	ID          uint8  `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() Config {
	return Config{
		ProtocolVersion: 1,
		TickRate:        60,
		MaxPacketSize:   1200,
		MaxClients:      8,
		PacketTypes: []PacketTypeConfig{
			{ID: 1, Name: "ping", Description: "latency probe"},
			{ID: 2, Name: "pong", Description: "latency probe reply"},
			{ID: 10, Name: "state", Description: "game state snapshot"},
		},
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read relay config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse relay config: %w", err)
	}
	return cfg, nil
}

func (c Config) registry() []neonbridge.PacketTypeInfo {
	entries := make([]neonbridge.PacketTypeInfo, 0, len(c.PacketTypes))
	for _, pt := range c.PacketTypes {
		entries = append(entries, neonbridge.PacketTypeInfo{
			ID:          pt.ID,
			Name:        pt.Name,
			Description: pt.Description,
		})
	}
	return entries
}

func (c Config) knownType(id uint8) bool {
	for _, pt := range c.PacketTypes {
		if pt.ID == id {
			return true
		}
	}
	return false
}
