package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/yacobolo/varinspect/internal/varinspect"
)

const defaultConfigPath = ".varinspect.yaml"

var k = koanf.New(".")

// configSections are the nested sections of the config file
var configSections = []string{"inspect", "resolve", "watch"}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// Only flags the user set; unset flags fall through to env and file
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", nil), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
func loadConfigFromPath(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("VARINSPECT_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
//
//	VARINSPECT_VERBOSE                -> verbose
//	VARINSPECT_INSPECT_OUTPUT_FORMAT  -> inspect.output-format
//	VARINSPECT_RESOLVE_CONCURRENCY    -> resolve.concurrency
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "VARINSPECT_"))
	for _, section := range configSections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + strings.ReplaceAll(rest, "_", "-")
		}
	}
	return strings.ReplaceAll(key, "_", "-")
}

// InspectConfig is the resolved configuration of an inspection run
type InspectConfig struct {
	Snapshots    []string
	Selection    []string
	OutputFormat string
	Strict       bool
	Threshold    float64
	Report       varinspect.ReportConfig
	Options      varinspect.Options
	TokenFiles   []string
}

// buildInspectConfig constructs the inspection settings from koanf state.
func buildInspectConfig(args []string) InspectConfig {
	snapshots := args
	if len(snapshots) == 0 {
		snapshots = getStringsWithFallback("snapshots", "inspect.snapshots", []string{
			"snapshots/**/*.json",
			"snapshots/**/*.yaml",
		})
	}

	return InspectConfig{
		Snapshots:    snapshots,
		Selection:    k.Strings("selection"),
		OutputFormat: getStringWithFallback("output-format", "inspect.output-format", ""),
		Strict:       getBoolWithFallback("strict", "inspect.strict", false),
		Threshold:    getFloat64WithFallback("threshold", "inspect.threshold", 0.0),
		Report: varinspect.ReportConfig{
			UseColors:     getBoolWithFallback("color", "color", false),
			PrintLayerID:  getBoolWithFallback("print-layer-id", "inspect.print-layer-id", false),
			MaxIssues:     getIntWithFallback("max-issues", "inspect.max-issues", 0),
			MaxSameIssues: getIntWithFallback("max-same-issues", "inspect.max-same-issues", 0),
		},
		Options: varinspect.Options{
			Concurrency:  getIntWithFallback("concurrency", "resolve.concurrency", varinspect.DefaultConcurrency),
			FetchTimeout: getDurationWithFallback("timeout", "resolve.timeout", defaultFetchTimeout),
			IgnoreLayers: getStringsWithFallback("ignore-layers", "inspect.ignore-layers", nil),
		},
		TokenFiles: getStringsWithFallback("tokens", "inspect.tokens", nil),
	}
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback is getStringWithFallback for list values.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}

// getDurationWithFallback accepts Go duration strings ("250ms") or integer nanoseconds.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}
