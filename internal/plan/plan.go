package plan

import (
	"fmt"
	"strings"
)

// Shell used to run the assembled build script inside the container.
const containerShell = "/bin/sh"

// Controls plan construction for a whole batch.
//
// A Config is built once at startup from the CLI flags and never mutated
// afterwards. Channel order is significant: channels are added to the conda
// configuration in the order given here, which fixes their resolution
// priority.
type Config struct {
	RecipesDir     string   // Host directory holding recipes.
	RecipesMount   string   // Recipes mount point inside the container.
	ArtefactsDir   string   // Host directory receiving artefacts.
	ArtefactsMount string   // Artefacts mount point inside the container.
	Channels       []string // Extra conda channels, in priority order.
	DefaultImage   string   // Image used for ordinary builds.
	IRODSImage     string   // Image used for iRODS 4.1.x builds.
	UID            int      // User ID for the conda user in the container.
	GID            int      // Group ID for the conda user in the container.
	Remove         bool     // Remove the container after each build.
}

// A fully assembled container invocation for one record.
//
// Plans are derived, not persisted: one is built per well-formed input line
// and discarded when the iteration that created it completes.
type Plan struct {
	Image  string   // Resolved build image.
	Script string   // Shell script run inside the container.
	Args   []string // Arguments for the container runtime CLI.
}

// Builds the execution plan for a record.
//
// The image must already be resolved via [Config.Image]. Construction is
// pure and cannot fail.
func New(rec Record, image string, cfg Config) *Plan {
	script := buildScript(rec, cfg)
	return &Plan{
		Image:  image,
		Script: script,
		Args:   buildArgs(image, script, cfg),
	}
}

// Renders the would-be invocation for dry-run reporting.
func (p *Plan) String() string {
	return "docker " + strings.Join(p.Args, " ")
}

// Assembles the in-container build script.
//
// Statements, in order: export the artefact output path, disable conda
// self-update, add each configured channel, then change to the recipes mount
// and run conda build against the record's recipe. Channels added earlier
// get lower resolution priority under conda's channel-priority rule, so
// insertion order is preserved exactly as configured.
func buildScript(rec Record, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "export CONDA_BLD_PATH=%s ; ", quote(cfg.ArtefactsMount))
	b.WriteString("conda config --set auto_update_conda False ; ")

	for _, channel := range cfg.Channels {
		fmt.Fprintf(&b, "conda config --add channels %s ; ", quote(channel))
	}

	fmt.Fprintf(&b, "cd %s && conda build %s", quote(cfg.RecipesMount), quote(rec.RecipePath))

	return b.String()
}

// Assembles the container runtime argument list.
//
// The shape is fixed by the runtime's CLI: run subcommand, bind mounts for
// recipes and artefacts, environment variables carrying the container user
// and group IDs, interactive mode, an optional auto-remove flag, the image,
// and finally the shell command executing the build script.
func buildArgs(image, script string, cfg Config) []string {
	args := []string{
		"run",
		"--mount", bindMount(cfg.RecipesDir, cfg.RecipesMount),
		"--mount", bindMount(cfg.ArtefactsDir, cfg.ArtefactsMount),
		"-e", fmt.Sprintf("CONDA_USER_ID=%d", cfg.UID),
		"-e", fmt.Sprintf("CONDA_GROUP_ID=%d", cfg.GID),
		"-i",
	}

	if cfg.Remove {
		args = append(args, "--rm")
	}

	return append(args, image, containerShell, "-c", script)
}

// Formats a host-to-container bind mount specification.
func bindMount(source, target string) string {
	return fmt.Sprintf("source=%s,target=%s,type=bind", source, target)
}
