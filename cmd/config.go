package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/Mohsinsiddi/launchpad/internal/config"
	"github.com/Mohsinsiddi/launchpad/internal/ui"
	"github.com/spf13/cobra"
)

var configJSON bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show the effective configuration",
	Long: `Show the configuration after the config file, .env and LAUNCHPAD_*
environment overrides have been applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configJSON {
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}
		keys := append(append([]string{}, config.Keys...), cfg.RPCKeys()...)
		pairs := make([][2]string, 0, len(keys))
		for _, k := range keys {
			v, err := cfg.Get(k)
			if err != nil {
				return err
			}
			if v == "" {
				v = ui.Meta("(unset)")
			}
			pairs = append(pairs, [2]string{k, v})
		}
		fmt.Println(ui.KeyValueBlock("Current Configuration", pairs))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Example: `  launchpad config set api_base_url https://api.example.com
  launchpad config set rpc_urls.137 https://polygon-rpc.com
  launchpad config set rpc_urls.137 ""       # back to the built-in RPC
  launchpad config set confirm_timeout 0     # wait until interrupted`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := cfg.Set(key, value); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s set to %q", key, value)))
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configJSON, "json", false, "print as JSON")
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
