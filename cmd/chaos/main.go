package main

import (
	"fmt"
	"io"
	"os"

	"github.com/deepnoodle-ai/wonton/cli"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Output destinations, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		if cli.IsHelpRequested(err) {
			return
		}
		printError(err)
		os.Exit(cli.GetExitCode(err))
	}
}

// execute builds the command line app and runs it with args.
func execute(args []string) error {
	app := cli.New("chaos").
		Description("Compiler and virtual machine for the Chaos language").
		Version(version).
		AddCompletionCommand()

	app.GlobalFlags(
		cli.String("config", "").Help("Path to a chaos.toml file"),
		cli.Bool("trace", "").Help("Log every executed instruction to stderr"),
		cli.Bool("no-color", "").Env("NO_COLOR").Help("Disable colored output"),
	)

	app.Main().
		Args("file?").
		Flags(
			cli.String("code", "c").Help("Code to run"),
			cli.Bool("stdin", "").Help("Read code from stdin"),
		).
		Run(runHandler)

	app.Command("run").
		Description("Run a source file, raw program or image").
		Args("file?").
		Flags(
			cli.String("code", "c").Help("Code to run"),
			cli.Bool("stdin", "").Help("Read code from stdin"),
		).
		Run(runHandler)

	app.Command("compile").
		Description("Compile a source file to a raw program or image").
		Args("file").
		Flags(
			cli.String("output", "o").Help("Output path"),
			cli.Bool("image", "").Help("Write a CBOR image instead of raw words"),
		).
		Run(compileHandler)

	app.Command("dis").
		Description("Disassemble a program").
		Args("file?").
		Flags(
			cli.String("code", "c").Help("Code to disassemble"),
			cli.Bool("stdin", "").Help("Read code from stdin"),
			cli.String("output", "o").Enum("json", "text").Help("Output format"),
		).
		Run(disHandler)

	app.Command("ast").
		Description("Display the syntax tree of Chaos code").
		Args("file?").
		Flags(
			cli.String("code", "c").Help("Code to parse"),
			cli.Bool("stdin", "").Help("Read code from stdin"),
		).
		Run(astHandler)

	app.Command("test").
		Description("Run .kaos files against their expected output").
		Args("patterns...").
		Flags(
			cli.Bool("verbose", "v").Help("Show the output of passing tests"),
			cli.String("run", "r").Help("Run only tests matching pattern"),
		).
		Run(testHandler)

	app.Command("version").
		Description("Print version information").
		Flags(
			cli.String("output", "o").Enum("json", "text").Help("Output format"),
		).
		Run(versionHandler)

	return app.ExecuteArgs(args)
}

func versionHandler(ctx *cli.Context) error {
	if _, err := loadConfig(ctx); err != nil {
		return err
	}
	if ctx.String("output") == "json" {
		return printJSON(ctx, map[string]any{
			"version": version,
			"commit":  commit,
			"date":    date,
		})
	}
	fmt.Fprintln(stdout, version)
	return nil
}
