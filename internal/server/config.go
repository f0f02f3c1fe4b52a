package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jub0bs/hostcors"
	"gopkg.in/yaml.v3"
)

// Config configures a [Server].
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string `yaml:"addr"`
	// LogLevel is one of TRACE, DEBUG, INFO, WARN, WARNING, or ERROR.
	LogLevel string `yaml:"log_level"`
	// CORS configures the CORS middleware. If it specifies neither hosts
	// nor AllowAnyOrigin, any origin is allowed.
	CORS hostcors.Config `yaml:"cors"`
	// Debug turns the debug mode of the CORS middleware on.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used in the absence of a
// configuration file and of flags.
func DefaultConfig() Config {
	return Config{
		Addr:     "127.0.0.1:3000",
		LogLevel: "INFO",
		CORS: hostcors.Config{
			AllowAnyOrigin: true,
		},
	}
}

// LoadFile reads the YAML configuration file at path.
// Fields absent from the file keep their default value.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := decode(data)
	if err != nil {
		return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte) (Config, error) {
	cfg := DefaultConfig()
	// The default policy must not clash with hosts listed in the file.
	cfg.CORS = hostcors.Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}
	if len(cfg.CORS.Hosts) == 0 && !cfg.CORS.AllowAnyOrigin {
		cfg.CORS.AllowAnyOrigin = true
	}
	return cfg, nil
}
