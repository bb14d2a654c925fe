package main

import (
	"github.com/alexisbeaulieu97/formengine/internal/compile"
	"github.com/alexisbeaulieu97/formengine/internal/ids"
	"github.com/alexisbeaulieu97/formengine/internal/logging"
	"github.com/alexisbeaulieu97/formengine/internal/loader"
)

// loadAndCompile reads path as a journey definition and runs phases 1-5
// (CompileJourney), always wiring a human-readable logger into the compile
// package: at info level by default, at debug level (where the compile-phase
// messages are logged) when verbose is set.
func loadAndCompile(path string, verbose bool) (*compile.Base, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{Level: level, HumanReadable: true, Component: "formengine"})
	if err != nil {
		return nil, newCommandError("configure logging", "building CLI logger", err, "This is a bug; please report it.")
	}
	compile.Log = log

	doc, err := loader.LoadJourneyFile(path)
	if err != nil {
		return nil, newCommandError("load journey", "reading "+path, err, "Check the file path and YAML syntax.")
	}

	base, err := compile.CompileJourney(ids.NewGenerator(), doc)
	if err != nil {
		return nil, newCommandError("compile journey", "running the compilation pipeline", err, "Fix the reported structural error and recompile.")
	}

	return base, nil
}
