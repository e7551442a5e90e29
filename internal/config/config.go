package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	FileName            = "db2fixture.config.json"
	DefaultConnectionID = "db"
)

type Config struct {
	Version     string              `json:"version" mapstructure:"version"`
	BasePath    string              `json:"base_path" mapstructure:"base_path"`
	Database    Database            `json:"database" mapstructure:"database"`
	Connections map[string]Database `json:"connections,omitempty" mapstructure:"connections"`
	Fixture     Fixture             `json:"fixture" mapstructure:"fixture"`
}

type Database struct {
	Provider    string `json:"provider" mapstructure:"provider"`
	URLEnv      string `json:"url_env" mapstructure:"url_env"`
	TablePrefix string `json:"table_prefix,omitempty" mapstructure:"table_prefix"`
}

// Fixture holds the generator form: which connection to read, which tables
// to match and where the generated classes live.
type Fixture struct {
	DB              string `json:"db" mapstructure:"db"`
	Namespace       string `json:"ns" mapstructure:"ns"`
	ModelsNamespace string `json:"models_ns" mapstructure:"models_ns"`
	TableName       string `json:"table_name,omitempty" mapstructure:"table_name"`
	BaseClass       string `json:"base_class" mapstructure:"base_class"`
	WordSeparator   string `json:"word_separator,omitempty" mapstructure:"word_separator"`
}

func Default() *Config {
	return &Config{
		Version:  "1",
		BasePath: ".",
		Database: Database{
			Provider: "postgresql",
			URLEnv:   "DATABASE_URL",
		},
		Fixture: Fixture{
			DB:              DefaultConnectionID,
			Namespace:       `common\fixtures`,
			ModelsNamespace: `common\models`,
			BaseClass:       `yii\test\ActiveFixture`,
			WordSeparator:   "_",
		},
	}
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()

	if c.Version == "" {
		c.Version = def.Version
	}
	if c.BasePath == "" {
		c.BasePath = def.BasePath
	}
	if c.Database.Provider == "" {
		c.Database.Provider = def.Database.Provider
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = def.Database.URLEnv
	}
	if c.Fixture.DB == "" {
		c.Fixture.DB = def.Fixture.DB
	}
	if c.Fixture.Namespace == "" {
		c.Fixture.Namespace = def.Fixture.Namespace
	}
	if c.Fixture.ModelsNamespace == "" {
		c.Fixture.ModelsNamespace = def.Fixture.ModelsNamespace
	}
	if c.Fixture.BaseClass == "" {
		c.Fixture.BaseClass = def.Fixture.BaseClass
	}
	if c.Fixture.WordSeparator == "" {
		c.Fixture.WordSeparator = def.Fixture.WordSeparator
	}

	for id, conn := range c.Connections {
		if conn.Provider == "" {
			conn.Provider = c.Database.Provider
		}
		if conn.URLEnv == "" {
			conn.URLEnv = strings.ToUpper(id) + "_URL"
		}
		c.Connections[id] = conn
	}
}

// Connection returns the connection registered under id. The top level
// "database" section is always available as "db".
func (c *Config) Connection(id string) (Database, bool) {
	if conn, ok := c.Connections[id]; ok {
		return conn, true
	}
	if id == DefaultConnectionID {
		return c.Database, true
	}
	return Database{}, false
}

// ConnectionIDs lists every connection id, sorted.
func (c *Config) ConnectionIDs() []string {
	ids := []string{DefaultConnectionID}
	for id := range c.Connections {
		if id != DefaultConnectionID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (c *Config) GetDatabaseURL(id string) (string, error) {
	conn, ok := c.Connection(id)
	if !ok {
		return "", fmt.Errorf("there is no connection named %q", id)
	}
	dbURL := os.Getenv(conn.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", conn.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}

	for _, id := range c.ConnectionIDs() {
		conn, _ := c.Connection(id)
		supported := false
		for _, provider := range supportedProviders {
			if conn.Provider == provider {
				supported = true
				break
			}
		}
		if !supported {
			return fmt.Errorf("unsupported database provider %q for connection %q. Supported providers: %v", conn.Provider, id, supportedProviders)
		}
	}

	if c.BasePath == "" {
		return fmt.Errorf("base_path cannot be empty")
	}

	return nil
}

func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}
