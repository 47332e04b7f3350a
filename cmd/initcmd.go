package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkaster/curio/internal/config"
	"github.com/tkaster/curio/internal/paths"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a default config file",
	Long: `Writes a commented default configuration. With no argument the file
goes to .curio/config.yaml in the current directory; a path argument names
either the project directory or the config file itself.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 && strings.HasSuffix(args[0], ".yaml") {
			path = args[0]
		} else if len(args) == 1 {
			path = paths.ConfigFile(args[0])
		} else {
			path = paths.ConfigFile("")
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		cmd.Println(fmt.Sprintf("wrote %s", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
