package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/formengine/internal/compile"
	"github.com/alexisbeaulieu97/formengine/internal/eval"
	"github.com/alexisbeaulieu97/formengine/internal/registry"
)

type evalOptions struct {
	step    string
	fixture string
}

// evalFixture is the on-disk shape of the --answers file: a snapshot of the
// request-scoped inputs an evaluation needs, standing in for the excluded
// HTTP adapter so journeys can be exercised from a plain JSON file.
type evalFixture struct {
	Params  map[string]string `json:"params"`
	Query   map[string]string `json:"query"`
	Post    map[string]any    `json:"post"`
	Data    map[string]any    `json:"data"`
	Answers map[string]any    `json:"answers"`
}

func newEvalCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <journey.yaml>",
		Short: "Compile one step and evaluate it against a JSON answers/data/post fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], opts, rootFlags)
		},
	}
	cmd.Flags().StringVar(&opts.step, "step", "", "Step id to evaluate (defaults to the journey's entry step)")
	cmd.Flags().StringVar(&opts.fixture, "answers", "", "Path to a JSON fixture of params/query/post/data/answers")

	return cmd
}

func runEval(cmd *cobra.Command, path string, opts *evalOptions, rootFlags *rootFlags) error {
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

	fixture, err := loadFixture(opts.fixture)
	if err != nil {
		return err
	}

	functions := registry.NewFunctionRegistry()
	components := registry.NewComponentRegistry()
	artifact, err := compile.CompileStep(base, stepID, functions, components)
	if err != nil {
		return newCommandError("compile step", fmt.Sprintf("compiling step %s", stepID), err, "Fix the reported error for this step and recompile.")
	}

	ectx := eval.NewContext(
		artifact.Nodes, artifact.Meta, artifact.Functions, artifact.Components,
		artifact.Graph, artifact.PseudoIDs,
		&eval.RequestState{Params: fixture.Params, Query: fixture.Query, Post: fixture.Post},
	)
	for key, value := range fixture.Data {
		ectx.SetData(key, value)
	}
	for code, value := range fixture.Answers {
		ectx.Answers.Set(code, value, eval.SourceLoad)
	}

	runtime := eval.NewRuntime(artifact.Artifact, ectx)
	result := runtime.InvokeSync(stepID)
	if result.IsError() {
		return newCommandError("evaluate step", fmt.Sprintf("evaluating step %s", stepID), fmt.Errorf("%s: %s", result.Error.Type, result.Error.Message), "Check the fixture against the journey's field/validation definitions.")
	}

	encoded, err := json.MarshalIndent(result.Value, "", "  ")
	if err != nil {
		return newCommandError("encode result", "marshaling the evaluated block tree", err, "This is a bug; please report it.")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}

func loadFixture(path string) (evalFixture, error) {
	fixture := evalFixture{}
	if path == "" {
		return fixture, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture, newCommandError("load fixture", "reading "+path, err, "Check the fixture file path.")
	}
	if err := json.Unmarshal(data, &fixture); err != nil {
		return fixture, newCommandError("load fixture", "parsing "+path+" as JSON", err, "Check the fixture's JSON syntax.")
	}
	return fixture, nil
}
