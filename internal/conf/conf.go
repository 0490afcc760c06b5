// Package conf holds the process-wide configuration handle. InitConf
// loads an optional YAML file, layers PIPECALC_* environment variables
// on top, and fills in defaults, so readers can always ask Conf for a
// value.
package conf

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf is the global configuration handle, ready after InitConf.
var Conf *viper.Viper

func init() {
	Conf = defaults()
}

func defaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate", 20.0) // requests per second per client
	v.SetDefault("server.burst", 40)
	v.SetDefault("log.dir", "logs")
	v.SetDefault("tables.dir", "")
	v.SetDefault("tables.watch", false)
	return v
}

// InitConf reads the YAML file at path. A missing file keeps the
// defaults; a malformed one is an error. Values from a .env file and
// from PIPECALC_* environment variables override the file, matching
// keys with dots replaced by underscores (server.addr becomes
// PIPECALC_SERVER_ADDR).
func InitConf(path string) error {
	_ = godotenv.Load()

	v := defaults()
	v.SetEnvPrefix("pipecalc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return fmt.Errorf("config %s: %w", path, err)
			}
		}
	}
	Conf = v
	return nil
}
