package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/growthsystem/erpchat/core/config"
	"github.com/growthsystem/erpchat/core/guard"
	"github.com/growthsystem/erpchat/core/infrastructure/permissions"
)

var validateDoctype string

// validateCmd prints the safety verdict for one SQL statement without
// touching the database. Useful for tuning the guard policy.
var validateCmd = &cobra.Command{
	Use:           "validate <sql>",
	Short:         "Print the guard's verdict for a SQL statement",
	RunE:          runValidate,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateDoctype, "doctype", "d", "", "Target entity for INSERT statements")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configureLogging()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	oracle := permissions.NewStaticOracle(cfg.Permissions.Read, cfg.Permissions.Create)
	policy := guard.NewPolicy(cfg.Guard.AllowedInsertEntities, cfg.Guard.ReservedFields)

	// Validation is purely lexical plus permission checks; no row store
	// is needed.
	g := guard.New(policy, oracle, nil)

	verdict := g.Validate(args[0], validateDoctype)
	if verdict.Allowed {
		fmt.Println("allowed")
		return nil
	}
	return fmt.Errorf("rejected: %s", verdict.Reason)
}
