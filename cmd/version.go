package cmd

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
	"github.com/spf13/cobra"

	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
)

var (
	appVersion = "dev"
	buildTime  = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fspctl %s (built %s)\n", appVersion, buildTime)
		fmt.Fprintf(cmd.OutOrStdout(), "client: %s\n", fsp.UserAgent())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// SetVersion records the build version and time set by the linker
func SetVersion(version, built string) {
	appVersion = normalizeVersion(version)
	if built != "" {
		buildTime = built
	}
	rootCmd.Version = appVersion
}

// normalizeVersion strips a leading v from release tags; anything that is
// not a semantic version is kept as is.
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return "dev"
	}

	v, err := semver.ParseTolerant(version)
	if err != nil {
		return version
	}
	return v.String()
}

// isReleaseVersion reports whether version is a semantic version, dev builds are not
func isReleaseVersion(version string) bool {
	_, err := semver.Parse(version)
	return err == nil
}
