// Package main provides the entry point for the skim CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/skim/internal/cache"
	"github.com/dgnsrekt/skim/internal/source"
	"github.com/dgnsrekt/skim/rsvp"
	"github.com/dgnsrekt/skim/ui"
	"github.com/joho/godotenv"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	wpm         int
	smartPauses bool
	printMode   bool
	refresh     bool
	mouse       bool
	debug       bool

	readerConfig rsvp.Config
	logCloser    = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "skim [SOURCE|DIR]",
		Short: "Speed-read text in the terminal, one word at a time",
		Long: paragraph(
			fmt.Sprintf("\nSpeed-read text in the terminal, %s.", keyword("one word at a time")),
		),
		Example: paragraph("skim README.md\nskim --wpm 450 https://example.com/notes.md\ncat essay.txt | skim"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(*cobra.Command) error {
	if configFile != "" && configFile != viper.ConfigFileUsed() {
		if _, err := os.Stat(configFile); err == nil {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				log.Warn("Could not parse configuration file", "err", err)
			}
		}
	}

	// grab config values from Viper
	mouse = viper.GetBool("mouse")
	printMode = viper.GetBool("print")
	refresh = viper.GetBool("refresh")
	debug = viper.GetBool("debug")

	closer, err := setupLog(debug)
	if err != nil {
		return fmt.Errorf("unable to set up logging: %w", err)
	}
	logCloser = closer

	// Words can't be flashed on something that isn't a terminal, so fall
	// back to printing them.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		printMode = true
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

func execute(cmd *cobra.Command, args []string) error {
	cfg, err := rsvp.LoadConfigFromViper()
	if err != nil {
		return err
	}
	readerConfig = cfg

	var arg string
	if len(args) > 0 {
		arg = args[0]
	} else if yes, err := stdinIsPipe(); err != nil {
		return err
	} else if yes {
		// note that you can also explicitly use a - to read from stdin.
		arg = "-"
	}

	store, err := openCache()
	if err != nil {
		// Reading still works without a cache.
		log.Warn("Could not open document cache", "error", err)
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				log.Error("Could not close document cache", "error", err)
			}
		}()
	}

	resolver := &source.Resolver{
		Cache:     store,
		Refresh:   refresh,
		UserAgent: "skim/" + Version,
	}
	src, err := resolver.Resolve(cmd.Context(), arg)
	if err != nil {
		return err
	}
	log.Debug("Resolved source", "kind", src.Kind, "location", src.Location, "cached", src.Cached)

	if printMode {
		return runPrint(cmd.Context(), readerConfig, src.Text, os.Stdout)
	}
	return runTUI(src)
}

func openCache() (*cache.Store, error) {
	if !viper.GetBool("cache.enabled") {
		return nil, nil
	}

	cfg := cache.DefaultConfig()
	if ttl := viper.GetDuration("cache.ttl"); ttl > 0 {
		cfg.TTL = ttl
	}
	if mb := viper.GetInt64("cache.max_size"); mb > 0 {
		cfg.DiskCapacity = mb << 20
	}

	dir, err := gap.NewScope(gap.User, "skim").CacheDir()
	if err != nil {
		log.Warn("Could not find cache directory, caching in memory only", "error", err)
	} else {
		cfg.DiskPath = filepath.Join(dir, "documents")
	}

	return cache.Open(cfg)
}

func runTUI(src *source.Source) error {
	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Reader = readerConfig
	cfg.EnableMouse = mouse

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg, src).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	_ = logCloser()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn("Could not load .env file", "err", err)
	}

	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs to the cache directory")
	rootCmd.Flags().IntVarP(&wpm, "wpm", "w", rsvp.DefaultWPM, fmt.Sprintf("reading speed in words per minute (%d-%d)", rsvp.MinWPM, rsvp.MaxWPM))
	rootCmd.Flags().BoolVar(&smartPauses, "smart-pauses", true, "linger on long words and punctuation")
	rootCmd.Flags().BoolVarP(&printMode, "print", "p", false, "print words to stdout instead of starting the reader")
	rootCmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "refetch URLs instead of using the document cache")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse support")

	// Config bindings
	_ = viper.BindPFlag("wpm", rootCmd.Flags().Lookup("wpm"))
	_ = viper.BindPFlag("smart_pauses", rootCmd.Flags().Lookup("smart-pauses"))
	_ = viper.BindPFlag("print", rootCmd.Flags().Lookup("print"))
	_ = viper.BindPFlag("refresh", rootCmd.Flags().Lookup("refresh"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.max_size", 128)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "skim")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "skim")}, dirs...)
	}

	if c := os.Getenv("SKIM_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("skim")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("skim")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "skim.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
