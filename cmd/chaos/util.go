package main

import (
	"encoding/json"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deepnoodle-ai/wonton/cli"
	wcolor "github.com/deepnoodle-ai/wonton/color"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/chaos-lang/chaos/config"
	"github.com/chaos-lang/chaos/errors"
)

// File extensions recognized by run and dis.
const (
	sourceExt = ".kaos"
	rawExt    = ".kaosc"
	imageExt  = ".kaosi"
)

// stdin is the reader used for --stdin and piped input, replaced in tests.
var stdin io.Reader = os.Stdin

func printError(err error) {
	msg := err.Error()
	if !color.NoColor {
		msg = color.RedString("%s", msg)
	}
	fmt.Fprintln(stderr, msg)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// stdinIsPiped reports whether stdin carries data rather than a terminal.
// It is false whenever stdin has been replaced.
func stdinIsPiped() bool {
	f, ok := stdin.(*os.File)
	return ok && !isTerminal(f)
}

// loadConfig reads the file named by --config, or searches for chaos.toml
// from the working directory. The --trace and --no-color flags override the
// file.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := ctx.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return nil, err
	}
	if ctx.Bool("trace") {
		cfg.VM.Trace = true
	}
	if ctx.Bool("no-color") {
		cfg.Output.Color = config.ColorNever
	}
	applyColor(cfg)
	return cfg, nil
}

func applyColor(cfg *config.Config) {
	f, ok := stdout.(*os.File)
	enabled := cfg.UseColor(ok && isTerminal(f))
	wcolor.Enabled = enabled
	color.NoColor = !enabled
}

// newLogger returns a console logger on stderr. Tracing lowers the level to
// trace so the VM logs every instruction.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if cfg.VM.Trace {
		level = zerolog.TraceLevel
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}
	out := zerolog.ConsoleWriter{
		Out:        stderr,
		NoColor:    color.NoColor,
		TimeFormat: "15:04:05.000",
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// input is the program text or file selected on the command line.
type input struct {
	name string
	data []byte
}

func (in input) ext() string {
	return strings.ToLower(filepath.Ext(in.name))
}

// readInput selects exactly one of --code, --stdin, a file argument or piped
// stdin.
func readInput(ctx *cli.Context) (input, error) {
	codeSet := ctx.IsSet("code")
	stdinSet := ctx.Bool("stdin")
	fileProvided := ctx.Arg(0) != ""

	count := 0
	for _, set := range []bool{codeSet, stdinSet, fileProvided} {
		if set {
			count++
		}
	}
	if count > 1 {
		return input{}, goerrors.New("multiple input sources specified")
	}

	switch {
	case codeSet:
		return input{data: []byte(ctx.String("code"))}, nil
	case fileProvided:
		data, err := os.ReadFile(ctx.Arg(0))
		if err != nil {
			return input{}, err
		}
		return input{name: ctx.Arg(0), data: data}, nil
	case stdinSet || stdinIsPiped():
		data, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, err
		}
		return input{data: data}, nil
	default:
		return input{}, goerrors.New("no input provided")
	}
}

// formatError renders compile and runtime errors with source excerpts.
func formatError(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.New(errors.Format(err, wcolor.Enabled))
}

func printJSON(ctx *cli.Context, v any) error {
	var data []byte
	var err error
	if ctx.Bool("no-color") || !wcolor.Enabled {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(data))
	return nil
}
