package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "dashgrid.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "dashgrid.yml"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to find a directory containing a
// config file. Returns "" if none is found within a few levels.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if FindConfigFile(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// Unmarshal decodes the koanf tree at path into out, converting durations
// and text-unmarshalable values such as densities.
func Unmarshal(k *koanf.Koanf, path string, out any) error {
	return k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           out,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
}

// Resolve finishes a decoded project: applies defaults, resolves relative
// paths against root and expands ${VAR} references in source settings.
func Resolve(p *Project, root string) {
	ApplyDefaults(p)
	p.ProjectRoot = root
	p.StatePath = ResolvePath(p.StatePath, root)

	for i := range p.Datasets {
		src := &p.Datasets[i].Source
		src.Path = ResolvePath(ExpandEnvVars(src.Path), root)
		src.URL = ExpandEnvVars(src.URL)
		src.DSN = ExpandEnvVars(src.DSN)
		for k, v := range src.Headers {
			src.Headers[k] = ExpandEnvVars(v)
		}
		if src.Type == "sqlite" || src.Type == "duckdb" {
			src.DSN = resolveDSN(src.DSN, root)
		}
	}
}

// ResolvePath resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// resolveDSN treats embedded database DSNs as file paths unless they are
// in-memory or carry a URI scheme.
func resolveDSN(dsn, root string) string {
	if dsn == "" || dsn == ":memory:" || uriScheme.MatchString(dsn) {
		return dsn
	}
	return ResolvePath(dsn, root)
}

var (
	uriScheme  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
	envPattern = regexp.MustCompile(`\$\{([^}]+)\}`)
)

// ExpandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func ExpandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// describe is used in validation messages.
func describe(i int, d DatasetConfig) string {
	if d.Name == "" {
		return fmt.Sprintf("datasets[%d]", i)
	}
	return fmt.Sprintf("dataset %q", d.Name)
}
