package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodeset-analytics/dashgrid/internal/testutil"
	"github.com/nodeset-analytics/dashgrid/pkg/grid"
)

// rootFlags mirrors the persistent flags registered by the root command.
func rootFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("dashgrid", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("state", "", "")
	fs.StringP("output", "o", "", "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("log-level", "", "")
	return fs
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	ResetConfig()
	dir := testutil.SetupProject(t)
	cfgPath := filepath.Join(dir, "dashgrid.yaml")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, ".dashgrid", "state.db"), cfg.StatePath)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	d, ok := cfg.Dataset("operators")
	require.True(t, ok)
	assert.Equal(t, grid.Compact, d.Density)
	assert.Equal(t, filepath.Join(dir, "data", "operators.json"), d.Source.Path)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	dir := testutil.SetupProject(t)
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	// macOS temp dirs resolve through a symlink
	wantRoot, _ := filepath.EvalSymlinks(dir)
	gotRoot, _ := filepath.EvalSymlinks(cfg.ProjectRoot)
	assert.Equal(t, wantRoot, gotRoot)
	assert.Equal(t, []string{"operators"}, cfg.DatasetNames())
}

func TestLoadConfig_NoFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, GetConfigFileUsed())
	assert.Empty(t, cfg.Datasets)
	assert.Equal(t, 8765, cfg.UI.Port)
	assert.True(t, cfg.Analytics.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Analytics.FlushInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := testutil.SetupProject(t)
	cfgPath := filepath.Join(dir, "dashgrid.yaml")

	t.Setenv("DASHGRID_LOG_LEVEL", "error")
	t.Setenv("DASHGRID_OUTPUT", "json")
	t.Setenv("DASHGRID_UI__PORT", "9001")

	fs := rootFlags()
	require.NoError(t, fs.Parse([]string{"-o", "yaml", "--state", "custom.db", "-v"}))

	cfg, err := LoadConfig(cfgPath, fs)
	require.NoError(t, err)

	// env beats file
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 9001, cfg.UI.Port)
	// flags beat env
	assert.Equal(t, "yaml", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	// --state resolves against CWD
	abs, err := filepath.Abs("custom.db")
	require.NoError(t, err)
	assert.Equal(t, abs, cfg.StatePath)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	ResetConfig()
	dir := testutil.SetupProject(t)

	fs := rootFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := LoadConfig(filepath.Join(dir, "dashgrid.yaml"), fs)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{
			name:      "bad output mode",
			content:   "output: xml\n",
			errSubstr: "invalid output mode",
		},
		{
			name:      "bad log level",
			content:   "log_level: loud\n",
			errSubstr: "invalid log level",
		},
		{
			name: "unknown source type",
			content: `datasets:
  - name: x
    source: {type: ftp}
    columns: [{key: a}]
`,
			errSubstr: "unknown source type",
		},
		{
			name:      "malformed yaml",
			content:   "datasets: [\n",
			errSubstr: "error reading config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := testutil.WriteFile(t, t.TempDir(), "dashgrid.yaml", tt.content)
			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "log_level", envKey("DASHGRID_LOG_LEVEL"))
	assert.Equal(t, "ui.port", envKey("DASHGRID_UI__PORT"))
	assert.Equal(t, "analytics.flush_interval", envKey("DASHGRID_ANALYTICS__FLUSH_INTERVAL"))
}

func TestGetLogger_Fallback(t *testing.T) {
	ctx := t.Context()
	assert.NotNil(t, GetLogger(ctx))

	logger := testutil.NewTestLogger(t)
	assert.Same(t, logger, GetLogger(WithLogger(ctx, logger)))
}
