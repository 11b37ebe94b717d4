// Package cli provides the command-line interface with injectable io.Writer for testing.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/mcdonaldj/archivedir/internal/archive"
	"github.com/mcdonaldj/archivedir/internal/config"
	"github.com/mcdonaldj/archivedir/internal/logging"
)

const programName = "archivedir"

// ConfigService provides configuration operations for the CLI.
type ConfigService interface {
	Load() (*config.Config, error)
	Save(cfg *config.Config) error
	ConfigPath() (string, error)
	DefaultConfig() (*config.Config, error)
}

// ArchiveService produces archives for the CLI.
type ArchiveService interface {
	Produce(sourceDir, outputDir string) (archive.Result, error)
}

// CLI represents the command-line interface with injectable dependencies.
type CLI struct {
	Out     io.Writer // Standard output
	Err     io.Writer // Standard error, also receives log output
	Version string    // Application version
	Args    []string  // Command arguments (like os.Args)

	// Exit function for testability (defaults to os.Exit)
	Exit func(code int)

	// Injectable dependencies (nil means use defaults)
	ConfigSvc ConfigService
	// ArchiveSvc builds the archive service once the logger is configured.
	ArchiveSvc func(log zerolog.Logger) ArchiveService

	// Color functions (can be disabled for testing)
	green  func(a ...interface{}) string
	yellow func(a ...interface{}) string
	cyan   func(a ...interface{}) string
	gray   func(a ...interface{}) string
}

// New creates a new CLI with default settings.
func New(version string) *CLI {
	return &CLI{
		Out:     os.Stdout,
		Err:     os.Stderr,
		Version: version,
		Args:    os.Args,
		Exit:    os.Exit,
		green:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		yellow:  color.New(color.FgYellow).SprintFunc(),
		cyan:    color.New(color.FgCyan).SprintFunc(),
		gray:    color.New(color.FgHiBlack).SprintFunc(),
	}
}

// NewForTesting creates a CLI configured for testing (no colors, captured output).
func NewForTesting(out, errOut io.Writer, args []string) *CLI {
	noColor := func(a ...interface{}) string { return fmt.Sprint(a...) }
	return &CLI{
		Out:     out,
		Err:     errOut,
		Version: "test",
		Args:    args,
		Exit:    func(int) {},
		green:   noColor,
		yellow:  noColor,
		cyan:    noColor,
		gray:    noColor,
	}
}

// defaultConfigService wraps the config package functions.
type defaultConfigService struct{}

func (d *defaultConfigService) Load() (*config.Config, error)          { return config.Load() }
func (d *defaultConfigService) Save(cfg *config.Config) error          { return cfg.Save() }
func (d *defaultConfigService) ConfigPath() (string, error)            { return config.ConfigPath() }
func (d *defaultConfigService) DefaultConfig() (*config.Config, error) { return config.DefaultConfig() }

// Helper methods to get the service or default
func (c *CLI) configSvc() ConfigService {
	if c.ConfigSvc != nil {
		return c.ConfigSvc
	}
	return &defaultConfigService{}
}

func (c *CLI) archiveSvc(log zerolog.Logger) ArchiveService {
	if c.ArchiveSvc != nil {
		return c.ArchiveSvc(log)
	}
	return archive.NewDefaultService(log)
}

// Run executes the CLI with the configured arguments.
func (c *CLI) Run() {
	if len(c.Args) < 2 {
		c.printUsage(c.Err)
		c.Exit(1)
		return
	}

	switch c.Args[1] {
	case "run":
		c.RunArchive(c.Args[2:])
	case "init":
		c.InitConfig()
	case "version", "-v", "--version":
		fmt.Fprintf(c.Out, "%s v%s\n", programName, c.Version)
	case "help", "-h", "--help":
		c.PrintUsage()
	default:
		// archivedir --source-dir X --output-dir Y
		if strings.HasPrefix(c.Args[1], "-") {
			c.RunArchive(c.Args[1:])
			return
		}
		fmt.Fprintf(c.Err, "Unknown command: %s\n", c.Args[1])
		c.printUsage(c.Err)
		c.Exit(1)
	}
}

// PrintUsage prints the help message.
func (c *CLI) PrintUsage() {
	c.printUsage(c.Out)
}

func (c *CLI) printUsage(w io.Writer) {
	fmt.Fprintln(w, `archivedir - Archive a directory into a dated zip file

Usage:
  archivedir --source-dir DIR --output-dir DIR   Zip DIR into <output>/<name>_YYYY-MM-DD.zip
  archivedir run [SOURCE] [OUTPUT] [flags]        Same, with optional positional paths
  archivedir init                                 Create default config file
  archivedir version, -v                          Show version
  archivedir help, -h                             Show this help

Flags:
  --source-dir DIR    Directory to archive
  --output-dir DIR    Directory to write the archive to (created if missing)
  --verbose           Log every archived file
  --log-format FMT    console or json

Config: ~/.archivedir/config.yaml`)
}

// InitConfig creates the default config file.
func (c *CLI) InitConfig() {
	svc := c.configSvc()
	cfg, err := svc.DefaultConfig()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	if err := svc.Save(cfg); err != nil {
		fmt.Fprintf(c.Err, "Error saving config: %v\n", err)
		c.Exit(1)
		return
	}
	path, err := svc.ConfigPath()
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}
	fmt.Fprintf(c.Out, "Created config at %s\n", path)
}

// RunArchive parses archive flags, produces the archive and reports the outcome.
func (c *CLI) RunArchive(args []string) {
	flags := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flags.SetOutput(c.Err)
	sourceFlag := flags.String("source-dir", "", "directory to archive")
	outputFlag := flags.String("output-dir", "", "directory to write the archive to")
	verbose := flags.Bool("verbose", false, "log every archived file")
	logFormat := flags.String("log-format", "", "log format: console or json")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	cfg, err := c.configSvc().Load()
	if err != nil {
		fmt.Fprintf(c.Err, "Error loading config: %v\n", err)
		c.Exit(1)
		return
	}

	sourceDir := firstNonEmpty(*sourceFlag, flags.Arg(0))
	outputDir := firstNonEmpty(*outputFlag, flags.Arg(1), cfg.OutputDir)
	if sourceDir == "" {
		fmt.Fprintln(c.Err, "Error: --source-dir is required")
		c.Exit(1)
		return
	}
	if outputDir == "" {
		fmt.Fprintln(c.Err, "Error: --output-dir is required (or set output_dir in the config file)")
		c.Exit(1)
		return
	}
	if sourceDir, err = config.ExpandPath(sourceDir); err == nil {
		outputDir, err = config.ExpandPath(outputDir)
	}
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	level := cfg.LogLevel
	if *verbose {
		level = "debug"
	}
	format := firstNonEmpty(*logFormat, cfg.LogFormat)
	if format != "console" && format != "json" {
		fmt.Fprintf(c.Err, "Error: unknown log format %q\n", format)
		c.Exit(1)
		return
	}
	log, err := logging.New(&logging.Options{
		Level:  level,
		Pretty: format == "console",
		Out:    c.Err,
		Name:   programName,
	})
	if err != nil {
		fmt.Fprintf(c.Err, "Error: %v\n", err)
		c.Exit(1)
		return
	}

	fmt.Fprintf(c.Out, "%s Archiving %s...\n", c.cyan("=>"), sourceDir)

	res, err := c.archiveSvc(log).Produce(sourceDir, outputDir)
	if err != nil {
		switch archive.KindOf(err) {
		case archive.KindNotFound:
			log.Error().Msg(err.Error())
		case archive.KindPermission:
			log.Error().Msgf("Permission error: %v", err)
		default:
			log.Error().Msgf("OS error: %v", err)
		}
		c.Exit(1)
		return
	}

	log.Info().Msgf("Zipped %s to %s", sourceDir, res.Path)
	fmt.Fprintf(c.Out, "  %s %s %s %s\n",
		c.green("*"),
		res.Path,
		c.yellow(humanize.IBytes(uint64(res.Size))),
		c.gray(fmt.Sprintf("%d files", res.FileCount)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
