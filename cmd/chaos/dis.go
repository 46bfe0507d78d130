package main

import (
	"github.com/deepnoodle-ai/wonton/cli"

	"github.com/chaos-lang/chaos/dis"
)

func disHandler(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	in, err := readInput(ctx)
	if err != nil {
		return err
	}
	program, err := loadProgram(ctx.Context(), in, chaosOptions(cfg, in, newLogger(cfg)))
	if err != nil {
		return formatError(err)
	}

	// Print what decodes even when the stream is malformed
	instructions, disErr := dis.Disassemble(program)
	if ctx.String("output") == "json" {
		if err := printJSON(ctx, instructions); err != nil {
			return err
		}
	} else {
		dis.Print(instructions, stdout)
	}
	return disErr
}
