package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	daemonAddress string
	configPath    string
	verbose       bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "groundworks",
		Short: "Groundworks CLI - schedule construction work across workshops",
		Long: `Groundworks drives multi-stage construction jobs through workshops that
draw on a limited workforce and a shared resource pool.

Run a scenario locally, or talk to a running daemon over gRPC.

Examples:
  groundworks simulate --scenario configs/scenarios/outpost.yaml --ticks 120 --dt 60s
  groundworks workshop list
  groundworks workshop status ws-main
  groundworks queue add ws-main hab-1
  groundworks queue up ws-main hab-1
  groundworks workshop start ws-main
  groundworks workshop notices ws-main --level WARNING`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&daemonAddress, "daemon", getDefaultDaemonAddress(),
		"Address of the groundworks daemon (host:port)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/groundworks)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewWorkshopCommand())
	rootCmd.AddCommand(NewQueueCommand())

	return rootCmd
}

// getDefaultDaemonAddress returns the daemon address from the environment
func getDefaultDaemonAddress() string {
	if addr := os.Getenv("GW_DAEMON_ADDRESS"); addr != "" {
		return addr
	}
	return "localhost:50061"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
