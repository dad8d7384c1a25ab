package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/fxlib/pkg/ui"
)

// Set at release time with -ldflags "-X github.com/kamal-hamza/fxlib/cmd.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Print the fxlib version and build details",
	Run: func(cmd *cobra.Command, args []string) {
		version, commit, date := buildInfo()
		fmt.Println(ui.FormatTitle("fxlib") + " " + ui.FormatMuted(version))
		fmt.Println(ui.RenderKeyValue("Commit", commit))
		fmt.Println(ui.RenderKeyValue("Built", date))
		fmt.Println(ui.RenderKeyValue("Runtime", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)))
	},
}

// buildInfo fills unset ldflags values from the module info embedded by `go install`
func buildInfo() (version, commit, date string) {
	version, commit, date = Version, GitCommit, BuildDate
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "unknown":
			commit = s.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case s.Key == "vcs.time" && date == "unknown":
			date = s.Value
		}
	}
	return
}
