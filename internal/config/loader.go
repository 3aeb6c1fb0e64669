package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.yaml.in/yaml/v3"
)

// PathEnv names the variable holding the YAML file path when no path is
// passed to Load.
const PathEnv = "TIERLINE_CONFIG"

// dotenvFiles are read in order. Earlier files win, and none of them
// overrides a variable already present in the environment.
var dotenvFiles = []string{".env.local", ".env"}

// envKeys maps each recognised environment variable to its config key.
// Anything else in the environment is ignored.
var envKeys = map[string]string{
	"DB_DRIVER":        "database.driver",
	"DB_HOST":          "database.host",
	"DB_PORT":          "database.port",
	"DB_USER":          "database.user",
	"DB_PASSWORD":      "database.password",
	"DB_NAME":          "database.name",
	"DB_SSLMODE":       "database.sslmode",
	"DB_MAX_CONNS":     "database.max_conns",
	"DB_QUERY_TIMEOUT": "database.query_timeout",
	"API_ADDR":         "api.addr",
	"GATEWAY_ADDR":     "gateway.addr",
	"BACKEND_URL":      "gateway.backend_url",
	"BACKEND_TIMEOUT":  "gateway.backend_timeout",
	"LOG_LEVEL":        "log.level",
	"LOG_FORMAT":       "log.format",
}

// Load builds the configuration. Sources are applied in order, later
// ones overriding earlier ones: defaults, the YAML file at path (or at
// $TIERLINE_CONFIG when path is empty), then the environment after
// .env files have been merged into it.
func Load(path string) (*Config, error) {
	if err := loadDotenv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := k.Load(yamlFile(path), nil); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return envKeys[key], value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func loadDotenv() error {
	for _, name := range dotenvFiles {
		if _, err := os.Stat(name); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// yamlFile is a koanf.Provider for a YAML document on disk. A missing
// file is an error since its path was asked for explicitly.
type yamlFile string

func (f yamlFile) Read() (map[string]any, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return dropNil(m), nil
}

func (f yamlFile) ReadBytes() ([]byte, error) {
	return nil, errors.New("ReadBytes not implemented")
}

// dropNil removes null YAML values so they don't clear defaults.
func dropNil(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
		case map[string]any:
			if sub := dropNil(t); len(sub) > 0 {
				out[k] = sub
			}
		default:
			out[k] = v
		}
	}
	return out
}
