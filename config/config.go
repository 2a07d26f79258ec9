// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/cardinalhq/cgd/internal/lookup"
	"github.com/cardinalhq/cgd/internal/resolver/cninfo"
	"github.com/cardinalhq/cgd/internal/resolver/creditcode"
	"github.com/cardinalhq/cgd/internal/webclient"
)

const envPrefix = "CGD"

// Config aggregates configuration for the application.
// Each section is owned by the package that consumes it.
type Config struct {
	DataDir     string            `mapstructure:"data"`
	Batch       lookup.Config     `mapstructure:"batch"`
	HTTP        webclient.Config  `mapstructure:"http"`
	CreditChina creditcode.Config `mapstructure:"creditchina"`
	CNInfo      cninfo.Config     `mapstructure:"cninfo"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:     defaultDataDir(),
		Batch:       lookup.DefaultConfig(),
		HTTP:        webclient.DefaultConfig(),
		CreditChina: creditcode.DefaultConfig(),
		CNInfo:      cninfo.DefaultConfig(),
	}
}

// Load reads configuration from an optional config file and environment
// variables. Environment variables use the prefix "CGD" and the dot
// character in keys is replaced by an underscore. For example, "data"
// becomes "CGD_DATA" and "batch.concurrency" becomes
// "CGD_BATCH_CONCURRENCY".
func Load() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "cgd"))
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultDataDir is $HOME/cgd, falling back to ./cgd when no home
// directory is known.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cgd"
	}
	return filepath.Join(home, "cgd")
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string{}, parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
