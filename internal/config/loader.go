package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix is the prefix scanned by LoadEnv.
const DefaultEnvPrefix = "MODALKIT_"

// Mapping is a user key mapping read from a configuration file. From
// and To use angle-bracket key notation. An empty Modes list applies
// the mapping to normal, visual, and operator-pending modes, matching
// the plain :map family.
type Mapping struct {
	Modes   []string `toml:"modes" yaml:"modes"`
	From    string   `toml:"from" yaml:"from"`
	To      string   `toml:"to" yaml:"to"`
	NoRemap bool     `toml:"noremap" yaml:"noremap"`
}

// File holds the parsed contents of a configuration file.
type File struct {
	// Options maps option names to values from the [options] table.
	Options map[string]any

	// Mappings lists user key mappings from the [[mappings]] tables.
	Mappings []Mapping
}

// fileSchema is the on-disk shape shared by the TOML and YAML forms.
type fileSchema struct {
	Options  map[string]any `toml:"options" yaml:"options"`
	Mappings []Mapping      `toml:"mappings" yaml:"mappings"`
}

// LoadFile reads and parses a configuration file, choosing the format
// by extension. A missing file returns (nil, nil).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		f, err := ParseTOML(data)
		if err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
		return f, nil
	case ".yaml", ".yml":
		f, err := ParseYAML(data)
		if err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseTOML parses TOML configuration data.
func ParseTOML(data []byte) (*File, error) {
	var schema fileSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return schema.file(), nil
}

// ParseYAML parses YAML configuration data.
func ParseYAML(data []byte) (*File, error) {
	var schema fileSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return schema.file(), nil
}

func (s *fileSchema) file() *File {
	f := &File{
		Options:  s.Options,
		Mappings: s.Mappings,
	}
	if f.Options == nil {
		f.Options = make(map[string]any)
	}
	return f
}

// LoadEnv reads option values from environment variables carrying the
// given prefix. MODALKIT_TIMEOUTLEN=500 becomes timeoutlen=500. Values
// are returned as strings; Store.Set parses them per option type.
func LoadEnv(prefix string) map[string]any {
	values := make(map[string]any)
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, prefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		option := strings.ToLower(strings.TrimPrefix(name, prefix))
		if option == "" {
			continue
		}
		values[option] = value
	}
	return values
}

// DefaultConfigDir returns the user configuration directory.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "modalkit")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "modalkit")
}

// DefaultConfigPath returns the first existing configuration file in
// the user configuration directory, or the TOML path if none exists.
func DefaultConfigPath() string {
	dir := DefaultConfigDir()
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "config.toml")
}

// formatInt is used when rendering option values for display.
func formatInt(v int) string {
	return strconv.Itoa(v)
}

// FormatValue renders an option value the way :set displays it.
// Boolean options render as "name" or "noname"; others as "name=value".
func FormatValue(opt Option, value any) string {
	switch opt.Type {
	case TypeBool:
		if b, ok := value.(bool); ok && b {
			return opt.Name
		}
		return "no" + opt.Name
	case TypeInt:
		if i, ok := value.(int); ok {
			return opt.Name + "=" + formatInt(i)
		}
	case TypeString:
		if s, ok := value.(string); ok {
			return opt.Name + "=" + s
		}
	}
	return fmt.Sprintf("%s=%v", opt.Name, value)
}
