package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gofirrtl/resetinfer/pkg/resets"
)

var inferCmd = &cobra.Command{
	Use:   "infer [flags] circuit.json",
	Short: "Run reset inference and async-reset materialization over a circuit.",
	Long: `Load a circuit from JSON, run the two-phase reset-inference and
async-reset-insertion pass, and report either a summary of what changed or
the diagnostics that caused it to fail.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(logrus.DebugLevel)
		}

		cfg, err := LoadConfig(GetString(cmd, "config"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		circuit, err := LoadCircuit(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		printBanner("resetinfer")

		classes := resets.AnnotationClasses{
			FullAsyncReset:       cfg.FullAsyncResetClass,
			IgnoreFullAsyncReset: cfg.IgnoreFullAsyncResetClass,
		}

		result, rep, ok := resets.RunWithClasses(circuit, classes, log)
		if !ok {
			PrintDiagnostics(rep)
			os.Exit(1)
		}

		PrintSuccess(result)
	},
}

func init() {
	rootCmd.AddCommand(inferCmd)
}
