package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/gcmap/cmd/collect"
	"github.com/ValentinKolb/gcmap/cmd/perf"
	"github.com/ValentinKolb/gcmap/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "gcmap",
		Short: "collector-integrated generic maps",
		Long: fmt.Sprintf(`gcmap (v%s)

Generic hash and sorted maps for Go whose backing stores are owned by a
collector: scoped maps are reclaimed once unreachable, permanent maps live
until the collector shuts down.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gcmap",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gcmap v%s\n", Version)
		},
	}
)

func init() {
	// load env files and env variables before the flags are read
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(perf.PerfCmd)
	RootCmd.AddCommand(collect.CollectCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
