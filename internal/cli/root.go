package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/condatools/condabatch/internal"
	"github.com/condatools/condabatch/internal/paths"
	"github.com/condatools/condabatch/internal/plan"
)

// Represents the root command for the condabatch CLI.
var RootCmd struct {
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Build   BuildCmd   `cmd:"" default:"withargs" help:"Build packages from records on stdin."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Batch conda package builder.\n\n"+
			"Reads build records on stdin, one per line, as three whitespace-"+
			"separated fields:\n\n<package name> <package version> <path to recipe>\n\n"+
			"Each record is built with conda build inside a Docker container, "+
			"sharing recipes and artefacts with the host via bind mounts. Records "+
			"are expected in dependency order, dependencies first."),
		kong.UsageOnError(),
		kong.Vars{
			"version":         internal.VersionString(),
			"recipes_dir":     paths.RecipesDir(),
			"recipes_mount":   paths.DefaultRecipesMount,
			"artefacts_dir":   paths.ArtefactsDir(),
			"artefacts_mount": paths.DefaultArtefactsMount,
			"build_image":     plan.DefaultBuildImage,
			"irods_image":     plan.IRODSBuildImage,
			"uid":             strconv.Itoa(os.Getuid()),
			"gid":             strconv.Itoa(os.Getgid()),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Successful builds log their output at debug severity only; failures are
// reported at error severity regardless of level. A dry run raises the level
// to info so the described invocations are visible without extra flags.
func configureLogger() {
	logger, ok := slog.Default().Handler().(*log.Logger)
	if !ok {
		return // Not a charm handler, nothing to configure
	}

	debug := RootCmd.Debug || internal.IsDebug()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	switch {
	case debug:
		logger.SetLevel(log.DebugLevel)
	case verbose || RootCmd.Build.DryRun:
		logger.SetLevel(log.InfoLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}

	logger.SetOutput(os.Stderr)
}
