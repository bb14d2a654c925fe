package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/formengine/internal/ast"
	"github.com/alexisbeaulieu97/formengine/internal/compile"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

type graphOptions struct {
	step string
}

func newGraphCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph <journey.yaml>",
		Short: "Print one step's compiled topological order, or its cycle witness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, args[0], opts, rootFlags)
		},
	}
	cmd.Flags().StringVar(&opts.step, "step", "", "Step id to inspect (defaults to the journey's entry step)")

	return cmd
}

func runGraph(cmd *cobra.Command, path string, opts *graphOptions, rootFlags *rootFlags) error {
	base, err := loadAndCompile(path, rootFlags.verbose)
	if err != nil {
		return err
	}

	stepID := opts.step
	if stepID == "" {
		step, err := entryStep(base)
		if err != nil {
			return err
		}
		stepID = step.ID()
	}

	artifact, err := compile.CompileStep(base, stepID, registry.NewFunctionRegistry(), registry.NewComponentRegistry())
	if err != nil {
		return newCommandError("compile step", fmt.Sprintf("compiling step %s", stepID), err, "Fix the reported error for this step and recompile.")
	}

	sorted := artifact.Graph.TopologicalSort()
	if sorted.HasCycles {
		fmt.Fprintln(cmd.OutOrStdout(), "cycle detected:")
		for _, cycle := range sorted.Cycles {
			fmt.Fprintf(cmd.OutOrStdout(), "  %v\n", cycle)
		}
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "topological order for %s:\n", stepID)
	for i, id := range sorted.Sort {
		fmt.Fprintf(cmd.OutOrStdout(), "  %3d  %s\n", i+1, id)
	}
	return nil
}

func entryStep(base *compile.Base) (*ast.Step, error) {
	for _, step := range base.Journey.Steps {
		if step.IsEntryPoint {
			return step, nil
		}
	}
	if len(base.Journey.Steps) > 0 {
		return base.Journey.Steps[0], nil
	}
	return nil, newCommandError("find entry step", "locating the journey's entry step", fmt.Errorf("journey has no steps"), "Author at least one step.")
}
