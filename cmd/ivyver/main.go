package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/frederic-klein/ivyver/internal/config"
	"github.com/frederic-klein/ivyver/internal/coord"
	"github.com/frederic-klein/ivyver/internal/discovery"
	"github.com/frederic-klein/ivyver/internal/modlist"
	"github.com/frederic-klein/ivyver/internal/report"
	"github.com/frederic-klein/ivyver/internal/repository"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
)

const defaultConfigPath = "ivyver.yaml"

var (
	ivyPatterns      []string
	artifactPatterns []string
	format           string
	unique           bool
	sortVersions     bool
	modulesFile      string
	jobs             int

	settings = viper.New()
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "ivyver",
		Short:        "List the versions of an Ivy module available in artifact repositories",
		Long:         "ivyver discovers which revisions of a module exist in Ivy-layout repositories (local directories, HTTP indexes, S3) by listing locations and matching them against artifact patterns, without downloading anything.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", defaultConfigPath, "Repository configuration file (env IVYVER_CONFIG)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output (env IVYVER_VERBOSE)")
	rootCmd.PersistentFlags().StringArrayVar(&ivyPatterns, "ivy-pattern", nil, "Ad-hoc Ivy descriptor pattern (repeatable)")
	rootCmd.PersistentFlags().StringArrayVar(&artifactPatterns, "artifact-pattern", nil, "Ad-hoc artifact pattern (repeatable)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "o", "text", "Output format: text, json, yaml")

	settings.SetEnvPrefix("IVYVER")
	settings.AutomaticEnv()
	_ = settings.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = settings.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	versionsCmd := &cobra.Command{
		Use:   "versions [org#module...]",
		Short: "List the versions of one or more modules",
		RunE:  runVersions,
	}
	versionsCmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "Number of modules to list concurrently")
	versionsCmd.Flags().StringVarP(&modulesFile, "modules-file", "f", "", "Read modules from a file, one org#module per line")
	versionsCmd.Flags().BoolVarP(&unique, "unique", "u", false, "Drop duplicate versions")
	versionsCmd.Flags().BoolVarP(&sortVersions, "sort", "s", false, "Sort versions oldest first")

	patternsCmd := &cobra.Command{
		Use:   "patterns <org#module>",
		Short: "Show the location listed and the name template matched for every pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runPatterns,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ivyver %s (commit %s)\n", version, commit)
		},
	}

	rootCmd.AddCommand(versionsCmd, patternsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runVersions(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	modules, err := collectModules(args)
	if err != nil {
		return err
	}
	out, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	for _, w := range config.Warnings(cfg) {
		logger.Warn(w)
	}

	d := discovery.New(newLister(cfg), logger)
	results, err := d.ListAll(cmd.Context(), modules, cfg.Repositories, jobs)
	if err != nil {
		return err
	}

	reports := make([]report.Report, 0, len(modules))
	var missing []string
	for i, module := range modules {
		versions := results[i].Versions
		if unique {
			versions = results[i].Unique()
		}
		if sortVersions {
			versions = report.SortVersions(versions)
		}
		if len(versions) == 0 {
			missing = append(missing, module.String())
		}
		reports = append(reports, report.New(module, results[i], versions))
	}

	emitter := report.NewEmitter(cmd.OutOrStdout(), out)
	if len(reports) == 1 {
		err = emitter.Emit(reports[0])
	} else {
		err = emitter.EmitAll(reports)
	}
	if err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if len(missing) > 0 {
		return fmt.Errorf("no versions found for %s", strings.Join(missing, ", "))
	}
	return nil
}

// collectModules merges modules given as arguments with those read from
// --modules-file.
func collectModules(args []string) ([]coord.Module, error) {
	var modules []coord.Module
	for _, arg := range args {
		m, err := coord.ParseModule(arg)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	if modulesFile != "" {
		listed, err := modlist.NewParser().Parse(modulesFile)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", modulesFile, err)
		}
		modules = append(modules, listed...)
	}

	if len(modules) == 0 {
		return nil, errors.New("no modules given: pass org#module arguments or --modules-file")
	}
	return modules, nil
}

func runPatterns(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	module, err := coord.ParseModule(args[0])
	if err != nil {
		return err
	}
	out, err := report.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	return report.NewEmitter(cmd.OutOrStdout(), out).EmitPlan(discovery.Plan(module, cfg.Repositories))
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "ivyver"})
	if settings.GetBool("verbose") {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// loadConfig reads the configuration file and appends a repository built
// from the ad-hoc pattern flags. A missing default config file is not an
// error when ad-hoc patterns are given.
func loadConfig(logger *log.Logger) (*config.Config, error) {
	path := settings.GetString("config")
	adHoc := config.Repository{
		Name:             "command-line",
		IvyPatterns:      ivyPatterns,
		ArtifactPatterns: artifactPatterns,
	}

	cfg, err := config.LoadWithAdHoc(path, path == defaultConfigPath, adHoc)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no repositories configured: create %s or pass --ivy-pattern/--artifact-pattern", path)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("Loaded configuration", "path", path, "repositories", len(cfg.Repositories))
	return cfg, nil
}

// newLister creates a registry with all built-in repository listers.
func newLister(cfg *config.Config) *repository.Registry {
	httpLister := &repository.HTTPLister{
		Timeout: cfg.HTTP.Timeout,
		MaxSize: cfg.HTTP.MaxIndexSize,
	}

	reg := repository.NewRegistry()
	reg.Register("file", &repository.FileLister{})
	reg.Register("http", httpLister)
	reg.Register("https", httpLister)
	reg.Register("s3", repository.NewS3Lister(repository.S3Options{
		Region:   cfg.S3.Region,
		Endpoint: cfg.S3.Endpoint,
	}))
	return reg
}
