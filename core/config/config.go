package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig configures the ERP row store connection.
type DatabaseConfig struct {
	// Connector is "mysql" or "postgres".
	Connector string `yaml:"connector"`
	// ConnectionString may reference environment variables with
	// {{ env.NAME }} placeholders, resolved at load time so secrets are
	// never written into the config file.
	ConnectionString string `yaml:"connection_string"`
}

// MemoryConfig configures the conversation history store.
type MemoryConfig struct {
	// RedisURL enables the Redis-backed store; empty selects the
	// in-process store.
	RedisURL string `yaml:"redis_url"`
	// Window is the number of recent messages kept per conversation.
	Window int `yaml:"window"`
	// TTL is how long an idle conversation is retained.
	TTL time.Duration `yaml:"ttl"`
}

// PermissionsConfig is the static permission set granted to the service
// principal. A single "*" entry grants every entity.
type PermissionsConfig struct {
	Read   []string `yaml:"read"`
	Create []string `yaml:"create"`
}

// GuardConfig configures the query guard policy.
type GuardConfig struct {
	// AllowedInsertEntities is the allow-list of record types safe for
	// assisted creation.
	AllowedInsertEntities []string `yaml:"allowed_insert_entities"`
	// ReservedFields are system fields an INSERT may never set.
	ReservedFields []string `yaml:"reserved_fields"`
}

// RenderConfig configures the template renderer.
type RenderConfig struct {
	// FuzzyLoopKeys enables the substring fallback when a loop's
	// collection key has no exact match in the binding.
	FuzzyLoopKeys *bool `yaml:"fuzzy_loop_keys"`
}

// Config is the full service configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Memory      MemoryConfig      `yaml:"memory"`
	Permissions PermissionsConfig `yaml:"permissions"`
	Guard       GuardConfig       `yaml:"guard"`
	Render      RenderConfig      `yaml:"render"`
}

// Entities mirroring the original assisted-creation allow-list. Used when the
// config file does not override guard.allowed_insert_entities.
var defaultInsertEntities = []string{
	"Lead", "Opportunity", "Customer", "Supplier",
	"Item", "Task", "Event", "Note",
}

var defaultReservedFields = []string{
	"docstatus", "idx", "lft", "rgt", "_user_tags", "_liked_by",
}

// Load reads and parses the configuration file, applies defaults and
// resolves {{ env.NAME }} placeholders in the connection string.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses raw YAML configuration content.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()

	if cfg.Database.ConnectionString != "" {
		resolved, err := SubstituteEnvVars(cfg.Database.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("database.connection_string: %w", err)
		}
		cfg.Database.ConnectionString = resolved
	}
	if cfg.Memory.RedisURL != "" {
		resolved, err := SubstituteEnvVars(cfg.Memory.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("memory.redis_url: %w", err)
		}
		cfg.Memory.RedisURL = resolved
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.Database.Connector == "" {
		c.Database.Connector = "mysql"
	}
	if c.Memory.Window <= 0 {
		c.Memory.Window = 10
	}
	if c.Memory.TTL <= 0 {
		c.Memory.TTL = 24 * time.Hour
	}
	if len(c.Guard.AllowedInsertEntities) == 0 {
		c.Guard.AllowedInsertEntities = append([]string(nil), defaultInsertEntities...)
	}
	if len(c.Guard.ReservedFields) == 0 {
		c.Guard.ReservedFields = append([]string(nil), defaultReservedFields...)
	}
	if c.Render.FuzzyLoopKeys == nil {
		enabled := true
		c.Render.FuzzyLoopKeys = &enabled
	}
}

// FuzzyLoopKeys reports whether the renderer's fuzzy loop-key fallback is
// enabled.
func (c *Config) FuzzyLoopKeys() bool {
	return c.Render.FuzzyLoopKeys == nil || *c.Render.FuzzyLoopKeys
}
