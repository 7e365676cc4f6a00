// Command takctl is a small CLI over the tak-wrapper API, useful for
// scripting and for poking a running wrapper without the web UI.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JShadowNull/TAK-Wrapper/internal/api"
)

var (
	wrapperPort int
	jsonOutput  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "takctl",
		Short: "Control a running tak-wrapper instance",
		Long: `takctl talks to the local tak-wrapper backend over its /api surface:
Docker state, TAK server lifecycle, and wrapper configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().IntVar(&wrapperPort, "port", 8000, "tak-wrapper port")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(newStatusCommand())
	rootCmd.AddCommand(newStartCommand())
	rootCmd.AddCommand(newStopCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newOpenCommand())
	rootCmd.AddCommand(newSelectDirCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// apiClient builds a client against the local wrapper.
func apiClient() *api.Client {
	return api.New(api.LocalBaseURL(wrapperPort),
		api.WithHTTPClient(&http.Client{Timeout: 10 * time.Minute}))
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
