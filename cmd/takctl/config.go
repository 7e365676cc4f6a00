package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set the wrapper configuration",
	}
	cmd.AddCommand(newConfigGetCommand())
	cmd.AddCommand(newConfigSetCommand())
	return cmd
}

func newConfigGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the persisted install directory and port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := apiClient().GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cfg)
			}
			fmt.Printf("install_dir: %s\n", cfg.InstallDir)
			fmt.Printf("port:        %s\n", cfg.Port)
			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	var installDir, port string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Persist the install directory and port",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := apiClient()
			ctx := cmd.Context()

			// Unset flags keep their stored values.
			current, err := client.GetConfig(ctx)
			if err != nil {
				return err
			}
			if installDir == "" {
				installDir = current.InstallDir
			}
			if port == "" {
				port = current.Port
			}

			result, err := client.SaveConfig(ctx, installDir, port)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			fmt.Println("Configuration saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&installDir, "install-dir", "", "TAK Manager install directory")
	cmd.Flags().StringVar(&port, "server-port", "", "TAK server port")
	return cmd
}
