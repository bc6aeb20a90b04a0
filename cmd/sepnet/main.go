// Package main provides the sepnet CLI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/born-ml/sepnet/backend/cpu"
	"github.com/born-ml/sepnet/model"
	"github.com/born-ml/sepnet/tensor"
)

const version = "v0.1.0-dev"

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	log.SetPrefix("sepnet: ")

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			log.Print(err)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "sepnet %s\n", version)
		return nil
	case "summary":
		return runSummary(args[1:], stdout)
	case "forward":
		return runForward(args[1:], stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stdout)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "sepnet - depthwise separable CNN for 10-class image classification")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  summary    Print per-layer output shapes and parameter counts")
	fmt.Fprintln(w, "  forward    Run a random batch through the network")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'sepnet <command> -h' for command flags.")
}

// options are the flags shared by summary and forward.
type options struct {
	batch   int
	size    int
	seed    int64
	workers int
	train   bool
}

func parseOptions(name string, args []string, stdout io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdout)
	fs.IntVar(&opts.batch, "batch", 4, "Batch size of the probe input")
	fs.IntVar(&opts.size, "size", 32, "Height and width of the probe images")
	fs.Int64Var(&opts.seed, "seed", 42, "Seed for weights, dropout and input (0 = time based)")
	fs.IntVar(&opts.workers, "workers", 0, "CPU worker goroutines (0 = all CPUs)")
	fs.BoolVar(&opts.train, "train", false, "Run in training mode (batch statistics, dropout)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	if opts.batch <= 0 {
		return nil, fmt.Errorf("%w: -batch must be positive, got %d", errUsage, opts.batch)
	}
	if opts.size < model.MinImageSize {
		return nil, fmt.Errorf("%w: -size must be at least %d, got %d", errUsage, model.MinImageSize, opts.size)
	}
	return opts, nil
}

// setup builds the backend, the network and a seeded random input batch.
func setup(opts *options) (*model.Net[*cpu.Backend], *tensor.Tensor[float32, *cpu.Backend], error) {
	backend := cpu.New()
	if opts.workers > 0 {
		backend = cpu.NewWithWorkers(opts.workers)
	}

	cfg := model.DefaultConfig()
	cfg.Seed = opts.seed
	net, err := model.New(cfg, backend)
	if err != nil {
		return nil, nil, fmt.Errorf("create model: %w", err)
	}
	net.SetTraining(opts.train)

	//nolint:gosec // synthetic probe input
	rng := rand.New(rand.NewSource(opts.seed + 1))
	input := tensor.RandnFrom[float32](rng, tensor.Shape{opts.batch, cfg.InChannels, opts.size, opts.size}, backend)
	return net, input, nil
}

func runSummary(args []string, stdout io.Writer) error {
	opts, err := parseOptions("summary", args, stdout)
	if err != nil {
		return ignoreHelp(err)
	}
	net, input, err := setup(opts)
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, net.Summary(input))
	return nil
}

func runForward(args []string, stdout io.Writer) error {
	opts, err := parseOptions("forward", args, stdout)
	if err != nil {
		return ignoreHelp(err)
	}
	net, input, err := setup(opts)
	if err != nil {
		return err
	}

	mode := "eval"
	if net.Training() {
		mode = "train"
	}
	fmt.Fprintf(stdout, "mode=%s input=%v params=%d\n", mode, input.Shape(), net.NumParameters())

	out := net.Forward(input)
	classes := out.Argmax(-1)
	numClasses := out.Shape()[1]
	data := out.Data()
	for i, class := range classes {
		row := data[i*numClasses : (i+1)*numClasses]
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = fmt.Sprintf("%.4f", v)
		}
		fmt.Fprintf(stdout, "sample %d: class=%d log_probs=[%s]\n", i, class, strings.Join(parts, " "))
	}
	return nil
}

func ignoreHelp(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}
