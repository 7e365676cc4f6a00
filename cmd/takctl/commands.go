package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Docker install/run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := apiClient()
			ctx := cmd.Context()

			installed, err := client.CheckDockerInstalled(ctx)
			if err != nil {
				return err
			}
			running := false
			if installed {
				if running, err = client.CheckDockerRunning(ctx); err != nil {
					return err
				}
			}

			if jsonOutput {
				return printJSON(map[string]bool{"installed": installed, "running": running})
			}
			fmt.Printf("Docker installed: %v\n", installed)
			fmt.Printf("Docker running:   %v\n", running)
			return nil
		},
	}
}

func newStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the TAK server container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := apiClient().StartContainer(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			if !result.Success {
				return fmt.Errorf("start failed: %s", result.Error)
			}
			if result.Port != "" {
				fmt.Printf("TAK server started on port %s\n", result.Port)
			} else {
				fmt.Println("TAK server started")
			}
			return nil
		},
	}
}

func newStopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the TAK server container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := apiClient().StopContainer(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			fmt.Println("TAK server stopped")
			return nil
		},
	}
}

func newOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <url>",
		Short: "Open a URL in the host's default browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient().OpenExternalURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			return nil
		},
	}
}

func newSelectDirCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select-dir",
		Short: "Open a native directory picker on the wrapper host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := apiClient().SelectDirectory(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(result)
			}
			if result.Directory == "" {
				fmt.Println("(cancelled)")
				return nil
			}
			fmt.Println(result.Directory)
			return nil
		},
	}
}
