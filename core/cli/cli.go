package cli

import (
	"github.com/growthsystem/erpchat/core/cli/cmd"
)

// Execute runs the root command.
func Execute() error {
	return cmd.Execute()
}
