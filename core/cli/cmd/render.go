package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/growthsystem/erpchat/core/domain"
	"github.com/growthsystem/erpchat/core/render"
)

var renderNoFuzzy bool

// renderCmd renders a template file against a JSON binding file and prints
// the result. Useful for inspecting what a template would produce.
var renderCmd = &cobra.Command{
	Use:           "render <template-file> <binding-file>",
	Short:         "Render a response template against a JSON binding",
	RunE:          runRender,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&renderNoFuzzy, "no-fuzzy", false, "Disable the fuzzy loop-key fallback")
}

func runRender(cmd *cobra.Command, args []string) error {
	configureLogging()

	template, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	bindingJSON, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read binding: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(bindingJSON, &raw); err != nil {
		return fmt.Errorf("binding is not valid JSON: %w", err)
	}

	renderer := render.New(render.Options{FuzzyLoopKeys: !renderNoFuzzy})
	fmt.Println(renderer.Render(string(template), bindingFromJSON(raw)))
	return nil
}

// bindingFromJSON converts decoded JSON into a binding: arrays of objects
// become row sequences, everything else stays scalar. JSON objects carry no
// column order, so columns are sorted for deterministic output.
func bindingFromJSON(raw map[string]any) domain.Binding {
	binding := domain.Binding{}
	for key, value := range raw {
		entries, ok := value.([]any)
		if !ok {
			binding[key] = value
			continue
		}

		rows := make(domain.Rows, 0, len(entries))
		for _, entry := range entries {
			fields, ok := entry.(map[string]any)
			if !ok {
				break
			}
			columns := make([]string, 0, len(fields))
			for column := range fields {
				columns = append(columns, column)
			}
			sort.Strings(columns)
			rows = append(rows, domain.Row{Columns: columns, Values: fields})
		}
		if len(rows) == len(entries) {
			binding[key] = rows
		} else {
			binding[key] = value
		}
	}
	return binding
}
