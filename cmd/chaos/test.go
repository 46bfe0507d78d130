package main

import (
	"fmt"

	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/deepnoodle-ai/wonton/color"

	"github.com/chaos-lang/chaos"
	chaostest "github.com/chaos-lang/chaos/testing"
)

func testHandler(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	summary, err := chaostest.Run(ctx.Context(), &chaostest.Config{
		Patterns:   ctx.Args(),
		RunPattern: ctx.String("run"),
		Options: []chaos.Option{
			chaos.WithConfig(cfg),
			chaos.WithLogger(logger),
		},
	})
	if err != nil {
		return err
	}

	output := chaostest.NewOutput(chaostest.OutputConfig{
		Writer:   stdout,
		Verbose:  ctx.Bool("verbose"),
		UseColor: color.Enabled,
	})
	output.PrintResults(summary)

	if !summary.Success() {
		return fmt.Errorf("%d of %d tests failed", summary.Failed+summary.Errors, summary.TotalTests())
	}
	return nil
}
