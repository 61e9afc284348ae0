// =============================================================================
// Batch Paste - Version Command
// =============================================================================
//
// Prints the release, the VCS revision the binary was built from (when the
// toolchain recorded one) and the extraction model used when none is
// configured. --short prints the release alone, for scripts.
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/batchpaste/internal/extraction"
)

// Version and BuildDate are overridden with -ldflags -X at release time.
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print release and build details",
	// Runs without loading a configuration file.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return
		}
		fmt.Fprintf(out, "Batch Paste %s (%s/%s)\n", Version, runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(out, "  built     %s with %s\n", BuildDate, runtime.Version())
		fmt.Fprintf(out, "  revision  %s\n", revision())
		fmt.Fprintf(out, "  model     %s\n", extraction.DefaultModel)
	},
}

// revision reads the commit stamped by the go command, if any.
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	rev, dirty := "", false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return "unknown"
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if dirty {
		rev += "+dirty"
	}
	return rev
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the release number")
	rootCmd.AddCommand(versionCmd)
}
