package cmd

import (
	"fmt"
	"strconv"

	"github.com/abhishekbhonde/new-portfolio/internal/config"
	"github.com/abhishekbhonde/new-portfolio/internal/output"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Show or change folio settings",
	GroupID: "system",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fail(cmd, err)
		}
		effective := map[string]string{
			"api_url":    settings.APIURL,
			"store":      settings.Store,
			"log_level":  settings.LogLevel.String(),
			"log_format": settings.LogFormat,
			"page_size":  strconv.Itoa(settings.PageSize),
		}

		if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
			return output.JSON(effective)
		}
		for _, key := range config.Keys {
			line := fmt.Sprintf("%-11s %s", key, effective[key])
			if cfg.Get(key) == "" {
				line += "  (default or env)"
			}
			output.Info("%s", line)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting to ~/.config/folio/config.json",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fail(cmd, err)
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return fail(cmd, err)
		}
		if err := config.Save(cfg); err != nil {
			return fail(cmd, err)
		}
		output.Success("%s = %s", args[0], cfg.Get(args[0]))
		return nil
	},
}

func init() {
	configShowCmd.Flags().Bool("json", false, "JSON output")

	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
