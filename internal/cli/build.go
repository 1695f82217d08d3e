package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/condatools/condabatch/internal/batch"
	"github.com/condatools/condabatch/internal/docker"
	"github.com/condatools/condabatch/internal/plan"
)

// Represents the 'condabatch build' command.
type BuildCmd struct {
	RecipesDir      string   `help:"Host recipes directory." default:"${recipes_dir}" placeholder:"DIR"`
	RecipesMount    string   `help:"Container recipes mount point." default:"${recipes_mount}" placeholder:"DIR"`
	ArtefactsDir    string   `help:"Host build artefacts directory." default:"${artefacts_dir}" placeholder:"DIR"`
	ArtefactsMount  string   `help:"Container build artefacts mount point." default:"${artefacts_mount}" placeholder:"DIR"`
	Channel         []string `help:"Extra conda channel to enable, in priority order. May be repeated." placeholder:"NAME"`
	BuildImage      string   `help:"Docker image used to build packages." default:"${build_image}" placeholder:"IMAGE"`
	IrodsImage      string   `help:"Docker image used to build iRODS 4.1.x." default:"${irods_image}" placeholder:"IMAGE"`
	RemoveContainer bool     `help:"Remove the Docker container after each build."`
	UID             int      `name:"uid" help:"UID for the conda user inside the container." default:"${uid}"`
	GID             int      `name:"gid" help:"GID for the conda user inside the container." default:"${gid}"`
	DryRun          bool     `help:"Log the Docker commands that would run, but do not build anything."`
}

// Executes the build command.
//
// Reads records from stdin and builds each in turn. The exit status is
// non-zero if any record's build failed, and immediately non-zero for fatal
// conditions (malformed input, image pull failure).
func (c *BuildCmd) Run(ctx context.Context) error {
	engine, err := docker.New()
	if err != nil {
		return err
	}

	results, err := batch.Run(ctx, engine, os.Stdin, batch.Options{
		Config: c.config(),
		DryRun: c.DryRun,
	})
	if err != nil {
		return err
	}

	if batch.AnyFailed(results) {
		return batch.ErrFailed
	}

	slog.Info("batch complete", "records", len(results))
	return nil
}

// Builds the immutable plan configuration from the command's flags.
func (c *BuildCmd) config() plan.Config {
	return plan.Config{
		RecipesDir:     c.RecipesDir,
		RecipesMount:   c.RecipesMount,
		ArtefactsDir:   c.ArtefactsDir,
		ArtefactsMount: c.ArtefactsMount,
		Channels:       c.Channel,
		DefaultImage:   c.BuildImage,
		IRODSImage:     c.IrodsImage,
		UID:            c.UID,
		GID:            c.GID,
		Remove:         c.RemoveContainer,
	}
}
