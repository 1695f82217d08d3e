package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Default recipes mount point inside the build container.
	DefaultRecipesMount = "/home/conda/recipes"

	// Default artefacts mount point inside the build container. This is
	// where conda build writes finished packages, so mounting it shares
	// them with the host.
	DefaultArtefactsMount = "/opt/conda/conda-bld"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Default host directory holding conda recipes.
//
//	$HOME/conda-recipes
func RecipesDir() string {
	return filepath.Join(xdg.Home, "conda-recipes")
}

// Default host directory receiving build artefacts.
//
//	$HOME/conda-artefacts
func ArtefactsDir() string {
	return filepath.Join(xdg.Home, "conda-artefacts")
}
