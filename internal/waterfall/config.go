package waterfall

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config orders the provider chains. Names must match the sources each
// cascade registers; unknown names are ignored at build time.
type Config struct {
	Phone []string `yaml:"phone"`
	Email []string `yaml:"email"`
}

// DefaultConfig returns the built-in provider order.
func DefaultConfig() *Config {
	return &Config{
		Phone: []string{"places", "directory", "scrape"},
		Email: []string{"hunter", "snov", "scrape"},
	}
}

// LoadConfig reads a provider-order override from a YAML file. Missing
// chains keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "waterfall: read config %s", path)
	}

	// The YAML nests under a top-level "waterfall" key.
	var wrapper struct {
		Waterfall Config `yaml:"waterfall"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "waterfall: parse config")
	}

	cfg := DefaultConfig()
	if len(wrapper.Waterfall.Phone) > 0 {
		cfg.Phone = wrapper.Waterfall.Phone
	}
	if len(wrapper.Waterfall.Email) > 0 {
		cfg.Email = wrapper.Waterfall.Email
	}
	return cfg, nil
}
