package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/formengine/internal/compile"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

func newCompileCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <journey.yaml>",
		Short: "Run the compilation pipeline and print a per-step summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], rootFlags)
		},
	}
	return cmd
}

func runCompile(cmd *cobra.Command, path string, rootFlags *rootFlags) error {
	base, err := loadAndCompile(path, rootFlags.verbose)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Journey:   %s\n", base.Journey.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "Nodes:     %d\n", base.Nodes.Len())
	fmt.Fprintf(cmd.OutOrStdout(), "Steps:     %d\n\n", len(base.Journey.Steps))

	for _, step := range base.Journey.Steps {
		artifact, err := compile.CompileStep(base, step.ID(), registry.NewFunctionRegistry(), registry.NewComponentRegistry())
		if err != nil {
			return newCommandError("compile step", fmt.Sprintf("compiling step %s", step.Path), err, "Fix the reported error for this step and recompile.")
		}

		asyncCount := 0
		for _, h := range artifact.Artifact.Handlers {
			if h.IsAsync() {
				asyncCount++
			}
		}

		sorted := artifact.Graph.TopologicalSort()
		fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", step.Path, step.ID())
		fmt.Fprintf(cmd.OutOrStdout(), "    handlers: %d (async: %d)\n", len(artifact.Artifact.Handlers), asyncCount)
		fmt.Fprintf(cmd.OutOrStdout(), "    pseudo-nodes: %d\n", len(artifact.PseudoIDs))
		fmt.Fprintf(cmd.OutOrStdout(), "    graph nodes: %d, cycles: %v\n", len(sorted.Sort), sorted.HasCycles)
	}

	return nil
}
