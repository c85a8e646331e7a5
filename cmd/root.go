package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// Environment variables, read after .env is loaded.
const (
	envConfig  = "BLURHASH_CONFIG"
	envProfile = "BLURHASH_PROFILE"
	envWorkers = "BLURHASH_WORKERS"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "blurhash",
	Short: "Compact image placeholders as short ASCII strings",
	Long: `blurhash encodes images into BlurHash strings (20-30 characters that
describe a blurred version of the picture) and renders them back into
placeholder images.

Hash a single file with "encode", render a hash with "decode", or hash a
whole directory tree into a manifest with "build".`,
	Version:           version,
	PersistentPreRunE: loadEnv,
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "profile file (YAML); defaults to $"+envConfig)
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"blurhash %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// loadEnv reads ./.env into the process environment. Variables already
// set take precedence; a missing file is not an error.
func loadEnv(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadProfiles returns the built-in profiles merged with --config or
// $BLURHASH_CONFIG when one is set.
func loadProfiles() (*profile.Set, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(envConfig)
	}
	if path == "" {
		return profile.Builtins(), nil
	}
	logVerbose("profiles: %s", path)
	return profile.LoadFile(path)
}

// resolveProfile picks name, then $BLURHASH_PROFILE, then the set default.
func resolveProfile(set *profile.Set, name string) profile.Profile {
	if name == "" {
		name = os.Getenv(envProfile)
	}
	if name == "" {
		name = set.DefaultName()
	}
	p, ok := set.Lookup(name)
	if !ok {
		p = set.Get(name)
		logVerbose("unknown profile %q, using %s parameters", name, set.DefaultName())
	}
	return p
}

// resolveWorkers returns flagValue, or $BLURHASH_WORKERS when the flag
// was not given.
func resolveWorkers(cmd *cobra.Command, flagValue int) (int, error) {
	if cmd.Flags().Changed("workers") {
		return flagValue, nil
	}
	s := os.Getenv(envWorkers)
	if s == "" {
		return flagValue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid worker count %q", envWorkers, s)
	}
	return n, nil
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[blurhash] "+format+"\n", args...)
	}
}
