package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"

	"github.com/chaos-lang/chaos/bytecode"
)

func compileHandler(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	in, err := readInput(ctx)
	if err != nil {
		return err
	}
	if in.ext() == rawExt || in.ext() == imageExt {
		return fmt.Errorf("%s is already compiled", in.name)
	}
	program, err := loadProgram(ctx.Context(), in, chaosOptions(cfg, in, newLogger(cfg)))
	if err != nil {
		return formatError(err)
	}

	image := ctx.Bool("image")
	out := ctx.String("output")
	if out == "" {
		out = outputPath(in.name, image)
	}
	var data []byte
	if image {
		data, err = bytecode.MarshalImage(program)
		if err != nil {
			return err
		}
	} else {
		var buf bytes.Buffer
		if _, err := program.WriteTo(&buf); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	stats := program.Stats()
	fmt.Fprintf(stdout, "wrote %s (%d instructions, %d words)\n",
		out, stats.InstructionCount, stats.WordCount)
	return nil
}

// outputPath replaces the source extension with the compiled one.
func outputPath(source string, image bool) string {
	ext := rawExt
	if image {
		ext = imageExt
	}
	if source == "" {
		return "out" + ext
	}
	return strings.TrimSuffix(source, sourceExt) + ext
}
