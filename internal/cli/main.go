package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "reelcut [url]",
		Short:        "Cut a short clip from an online video",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := ""
			if len(args) > 0 {
				url = args[0]
			}
			return run(cmd, url)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("start", "", "Clip start time, seconds or minutes:seconds (prompted when omitted)")
	root.Flags().String("end", "", "Clip end time, seconds or minutes:seconds (implies an explicit range)")
	root.Flags().Int("length", 0, "Clip length in seconds when --end is not set")
	root.Flags().Bool("auto", false, "Pick the clip range automatically from the transcript")
	root.Flags().Bool("remote", false, "Cut against the remote stream without a full download")
	root.Flags().Bool("burn-subs", false, "Burn captions into the clip when available")
	root.Flags().String("out", "", "Output directory")
	root.Flags().Int("max-height", 0, "Maximum video height to download")
	root.Flags().StringSlice("lang", nil, "Preferred caption languages, in order")
	root.Flags().String("config", "", "Path to a reelcut.yaml config file")
	root.Flags().String("log-file", "", "Also write logs to this rotating file")
	root.Flags().Bool("verbose", false, "Debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "operation failed:", err)
		os.Exit(1)
	}
}
