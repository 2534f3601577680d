package confd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v2"
)

// Config is the bootstrap configuration of the controller: where it
// listens, where the router is, and how long it waits before giving up on
// an idle connection. It is read once at startup and is unrelated to the
// configuration TREE served over the listening socket (that one lives in
// Store and resets to the empty default on every restart).
type Config struct {
	// AppName identifies this controller instance in log lines.
	//
	// Default value: "confd"
	AppName string `mapstructure:"app_name"`

	// Address is the TCP address the controller listens on.
	//
	// Default value: "127.0.0.1:8443"
	Address string `mapstructure:"address"`

	// RouterAddress is the TCP address of the sibling router process that
	// receives applied configuration trees.
	//
	// Default value: "127.0.0.1:8444"
	RouterAddress string `mapstructure:"router_address"`

	// InactivityTimeout bounds how long a connection may sit idle during
	// the head, body, or write phase before it is closed.
	//
	// Default value: 60s
	InactivityTimeout time.Duration `mapstructure:"inactivity_timeout"`

	// Backlog is the requested listen backlog. The listener does not apply
	// it; the platform default backlog is used whatever its value.
	//
	// Default value: 0
	Backlog int `mapstructure:"backlog"`

	// DebugMode enables verbose DEBUG-level logging.
	//
	// Default value: false
	DebugMode bool `mapstructure:"debug_mode"`

	// LoggerEnabled turns logging on or off entirely.
	//
	// Default value: true
	LoggerEnabled bool `mapstructure:"logger_enabled"`

	// LoggerFormat is the text/template format string the Logger renders
	// each line with.
	LoggerFormat string `mapstructure:"logger_format"`

	// ConfigFile is the path this Config was loaded from, if any. It is
	// set by the cmd/confd entrypoint (not by LoadConfigFile itself) so
	// the bootstrap watcher knows what to re-read on a write event.
	ConfigFile string `mapstructure:"-"`
}

// defaultConfig is returned by NewConfig before any bootstrap file is
// applied on top of it.
var defaultConfig = Config{
	AppName:           "confd",
	Address:           "127.0.0.1:8443",
	RouterAddress:     "127.0.0.1:8444",
	InactivityTimeout: 60 * time.Second,
	LoggerEnabled:     true,
	LoggerFormat: `{"app_name":"{{.app_name}}","time":"{{.time_rfc3339}}",` +
		`"level":"{{.level}}","file":"{{.short_file}}","line":"{{.line}}"}`,
}

// NewConfig returns a copy of the default Config.
func NewConfig() *Config {
	c := defaultConfig
	return &c
}

// LoadConfigFile reads path and decodes it on top of the default Config.
// The format is chosen from the file extension: .json, .toml, .yaml/.yml,
// or .ini. An empty path is not an error; it simply returns the defaults.
func LoadConfigFile(path string) (*Config, error) {
	c := NewConfig()
	if path == "" {
		return c, nil
	}

	m, err := decodeConfigFile(path)
	if err != nil {
		return nil, err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		// The .ini path only ever produces strings, so decoding needs to
		// coerce "false"/"128" into the typed fields below the same way
		// the other formats' native types already are.
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           c,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(m); err != nil {
		return nil, fmt.Errorf("confd: decoding %s: %w", path, err)
	}

	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return nil, fmt.Errorf("confd: invalid address %q: %w", c.Address, err)
	}

	return c, nil
}

// decodeConfigFile dispatches on file extension and returns a generic map,
// mirroring the teacher's Serve() configuration-file switch.
func decodeConfigFile(path string) (map[string]interface{}, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := map[string]interface{}{}
	switch e := strings.ToLower(filepath.Ext(path)); e {
	case ".json":
		err = json.Unmarshal(b, &m)
	case ".toml":
		err = toml.Unmarshal(b, &m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &m)
	case ".ini":
		m, err = decodeINIConfig(b)
	default:
		err = fmt.Errorf("confd: unsupported configuration file extension: %s", e)
	}

	if err != nil {
		return nil, err
	}

	return m, nil
}

// decodeINIConfig flattens a flat key=value override file into a map
// suitable for mapstructure.Decode. Only the default section is read; it
// exists to let operators override a handful of scalars without writing a
// full TOML document.
func decodeINIConfig(b []byte) (map[string]interface{}, error) {
	f, err := ini.Load(b)
	if err != nil {
		return nil, err
	}

	m := map[string]interface{}{}
	for _, key := range f.Section("").Keys() {
		m[key.Name()] = key.Value()
	}

	return m, nil
}
