package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/ChristopherRabotin/trajviz"
	"github.com/ChristopherRabotin/trajviz/viewer"
	kitlog "github.com/go-kit/log"
)

const usage = "usage: trajviz [flags] <data-file> [parameter-file]"

func init() {
	// raylib must run on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	logger := trajviz.NewLogger(os.Stderr, "main")
	err := run(context.Background(), os.Args[1:], os.Stderr, logger)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.Is(err, trajviz.ErrUsage):
		fmt.Fprintf(os.Stderr, "%s\n%s\n", err, usage)
		os.Exit(2)
	default:
		logger.Log("level", "critical", "err", err)
		os.Exit(1)
	}
}

// newWindow is replaced in tests.
var newWindow = func(title string, cancel context.CancelFunc, hold bool) trajviz.Renderer {
	w := viewer.New(title, cancel)
	w.Hold = hold
	return w
}

// run plays the command line args. Only the help is written to stderr: every
// other error is returned to the caller.
func run(ctx context.Context, args []string, stderr io.Writer, logger kitlog.Logger) error {
	fs := flag.NewFlagSet("trajviz", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	preset := fs.String("preset", trajviz.PresetKerr, "player preset: kerr, error or plain")
	confPath := fs.String("config", "", "TOML configuration file")
	fps := fs.Float64("fps", -1, "frames per second, 0 to play as fast as possible (default from the configuration)")
	headless := fs.Bool("headless", false, "do not open a window")
	hold := fs.Bool("hold", false, "keep the window open at the end of the stream")
	verbose := fs.Bool("verbose", false, "log the configuration")
	outs := make(outputs)
	fs.Var(outs, "out", "write `kind=path` where kind is gif, cosmo or csv (repeatable)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, usage)
			fs.SetOutput(stderr)
			fs.PrintDefaults()
			return err
		}
		return fmt.Errorf("%w: %s", trajviz.ErrUsage, err)
	}

	// The command line is checked before reading any file, configuration included.
	src, err := trajviz.PresetParams(*preset)
	if err != nil {
		return fmt.Errorf("%w: %s", trajviz.ErrUsage, err)
	}
	dataPath, paramPath, err := trajviz.CheckArgs(src, fs.Args())
	if err != nil {
		return err
	}
	if *headless && len(outs) == 0 {
		return fmt.Errorf("%w: -headless requires at least one -out", trajviz.ErrUsage)
	}

	conf, err := trajviz.LoadConfig(*preset, *confPath)
	if err != nil {
		return err
	}
	if *fps >= 0 {
		conf.Rate = *fps
		conf.Export.Rate = *fps
	}
	if *verbose {
		logger.Log("level", "info", "config", conf, "data", dataPath, "params", paramPath, "outputs", outs)
	}

	var params *trajviz.Parameters
	if paramPath != "" {
		if params, err = loadParameters(paramPath); err != nil {
			return err
		}
		logger.Log("level", "info", "params", params)
	}
	data, err := openData(dataPath)
	if err != nil {
		return err
	}
	defer data.Close()

	player, err := trajviz.NewPlayer(conf, params, trajviz.NewRecordReader(data, conf.MetricField))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var renderers []trajviz.Renderer
	if !*headless {
		renderers = append(renderers, newWindow("trajviz - "+dataPath, cancel, *hold))
	}
	renderers = append(renderers, exporters(conf, outs)...)

	stats, err := player.Play(ctx, renderers...)
	if errors.Is(err, context.Canceled) {
		// Closed window or interrupt: not a failure.
		logger.Log("level", "notice", "status", "interrupted", "stats", stats)
		return nil
	}
	return err
}
