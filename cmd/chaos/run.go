package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/rs/zerolog"

	"github.com/chaos-lang/chaos"
	"github.com/chaos-lang/chaos/bytecode"
	"github.com/chaos-lang/chaos/config"
)

func runHandler(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	in, err := readInput(ctx)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	opts := chaosOptions(cfg, in, logger)

	program, err := loadProgram(ctx.Context(), in, opts)
	if err != nil {
		return formatError(err)
	}
	if in.ext() == rawExt || in.ext() == imageExt {
		opts = append(opts, chaos.WithVerify())
	}
	opts = append(opts, chaos.WithOutput(stdout))
	if err := chaos.Run(ctx.Context(), program, opts...); err != nil {
		return formatError(err)
	}
	return nil
}

func chaosOptions(cfg *config.Config, in input, logger zerolog.Logger) []chaos.Option {
	opts := []chaos.Option{
		chaos.WithConfig(cfg),
		chaos.WithLogger(logger),
	}
	if in.name != "" {
		opts = append(opts, chaos.WithFilename(in.name))
	}
	return opts
}

// loadProgram compiles source input or decodes a program written by the
// compile command, depending on the file extension.
func loadProgram(ctx context.Context, in input, opts []chaos.Option) (*bytecode.Program, error) {
	switch in.ext() {
	case rawExt:
		program, err := bytecode.ReadProgram(bytes.NewReader(in.data))
		if err != nil {
			return nil, fmt.Errorf("cannot load %s: %w", in.name, err)
		}
		return program, nil
	case imageExt:
		program, err := bytecode.UnmarshalImage(in.data)
		if err != nil {
			return nil, fmt.Errorf("cannot load %s: %w", in.name, err)
		}
		return program, nil
	default:
		return chaos.Compile(ctx, string(in.data), opts...)
	}
}
