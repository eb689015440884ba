package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tomlpatch",
	Short: "Tomlpatch applies precise value changes to TOML config files.",
	Long: "Tomlpatch edits a TOML configuration file in place, rewriting only the " +
		"assignments, keys, or sections it is asked to change and leaving every " +
		"other byte of the file untouched.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Tomlpatch",
	Long:  `All software has versions. This is Tomlpatch's`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Tomlpatch v0.1 -- HEAD")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(patchCmd)
}
