package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .varinspect.yaml config file",
	Long:  `Create a .varinspect.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return writeDefaultConfig(defaultConfigPath, force)
	},
}

func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Println("Created " + path)
	return nil
}

const defaultConfig = `# varinspect configuration
# Precedence: flags > VARINSPECT_* environment > this file > defaults

verbose: false
quiet: false
color: false

# Inspection settings
inspect:
  snapshots:
    - "snapshots/**/*.json"
    - "snapshots/**/*.yaml"
  output-format: issues    # issues | summary | full | json | markdown
  strict: false
  threshold: 0.0           # minimum binding percentage in strict mode
  ignore-layers: []        # layer name globs, e.g. "Debug/**"
  tokens: []               # CSS files with --custom-property tokens
  print-layer-id: false
  max-issues: 0            # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited

# Variable resolution
resolve:
  concurrency: 8
  timeout: 5s

# Watch mode
watch:
  debounce: 100ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
