package cli

import (
	"context"
	"fmt"

	"github.com/condatools/condabatch/internal"
)

// Represents the 'condabatch version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
