package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	oerrors "github.com/opmodel/geodeploy/internal/errors"
)

// Environment variable prefix for configuration overrides.
const envPrefix = "GEODEPLOY"

// RequiredKeys are the settings every run needs, in report order.
var RequiredKeys = []string{
	"applicationName",
	"environment",
	"commonLocation",
	"locations",
	"containerImageName",
	"containerCpu",
	"containerMemory",
	"containerMinReplicas",
	"containerMaxReplicas",
	"containerConcurrentRequests",
}

var optionalKeys = []string{
	"engine.parallelism",
	"engine.latency",
	"log.timestamps",
}

// EnvVar returns the environment variable that overrides key, e.g.
// GEODEPLOY_CONTAINER_MIN_REPLICAS for containerMinReplicas.
func EnvVar(key string) string {
	var b strings.Builder
	b.WriteString(envPrefix)
	b.WriteByte('_')
	for i, r := range key {
		switch {
		case r == '.':
			b.WriteByte('_')
			continue
		case r >= 'A' && r <= 'Z':
			if i > 0 && key[i-1] != '.' {
				b.WriteByte('_')
			}
		}
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}

// Loader reads Settings from a YAML file with environment overrides.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	for _, key := range append(append([]string(nil), RequiredKeys...), optionalKeys...) {
		_ = v.BindEnv(key, EnvVar(key))
	}
	return &Loader{v: v}
}

// Load reads path (when it exists), applies environment overrides and checks
// that every required key is present. An explicitly named file that does not
// exist is an error; the default file is optional.
func (l *Loader) Load(path string) (*Settings, error) {
	file := ResolveConfigFile(path)

	l.v.SetConfigFile(file)
	l.v.SetConfigType("yaml")
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if !missing || path != "" {
			return nil, oerrors.NewConfigurationError(
				fmt.Sprintf("reading config file: %v", err), file, "", "")
		}
		file = ""
	}

	var missing []string
	for _, key := range RequiredKeys {
		if !l.v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, oerrors.NewConfigurationError(
			"missing required settings: "+strings.Join(missing, ", "),
			file,
			missing[0],
			fmt.Sprintf("set them in the config file or via %s", EnvVar(missing[0])),
		)
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, oerrors.NewConfigurationError(
			fmt.Sprintf("decoding settings: %v", err), file, "", "")
	}
	return &s, nil
}

// LoadAndValidate loads settings and validates them.
func LoadAndValidate(path string) (*Settings, error) {
	s, err := NewLoader().Load(path)
	if err != nil {
		return nil, err
	}
	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(s); err != nil {
		return nil, oerrors.NewConfigurationError(err.Error(), ResolveConfigFile(path), firstField(err), "")
	}
	return s, nil
}

func firstField(err error) string {
	var verrs ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field
	}
	return ""
}
