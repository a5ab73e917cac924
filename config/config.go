// Package config loads the settings shared by gcserver and gctool.
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BLOCKSITE_SERVER_BIND.
const EnvPrefix = "BLOCKSITE"

// Config holds application configuration.
type Config struct {
	Server  ServerConfig
	Content ContentConfig
	Site    SiteConfig
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Bind  string
	Net   string
	Debug bool
}

// ContentConfig selects where content is read from. Dir is a plain
// directory or, with Git set, a repository whose Branch head is served.
// When DB is set, records are read from that SQLite database instead of
// the file tree; templates and static files still come from Dir.
type ContentConfig struct {
	Dir    string
	Git    bool
	Branch string
	DB     string
}

// SiteConfig holds defaults for settings missing from the store.
type SiteConfig struct {
	Name       string
	FormAction string `mapstructure:"form_action"`
}

// Load reads configuration from defaults, an optional config file, a
// .env file and the environment, in increasing precedence. path may be
// empty, in which case BLOCKSITE_CONFIG or ./blocksite.{toml,yaml,json}
// is used if present.
func Load(path string) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.bind", "localhost:8080")
	v.SetDefault("server.net", "tcp")
	v.SetDefault("server.debug", false)
	v.SetDefault("content.dir", ".")
	v.SetDefault("content.git", false)
	v.SetDefault("content.branch", "master")
	v.SetDefault("content.db", "")
	v.SetDefault("site.name", "")
	v.SetDefault("site.form_action", "/forms")

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blocksite")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "unmarshal config")
	}
	return c, nil
}
