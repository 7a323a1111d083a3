package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/colon-crab-colon/voxelizer/pkg/core"
	"github.com/colon-crab-colon/voxelizer/pkg/pipeline"
	"github.com/colon-crab-colon/voxelizer/pkg/scene"
)

// options holds the command line settings that are not part of the pipeline
type options struct {
	config pipeline.Config
	quiet  bool
	help   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("voxelizer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printHelp(stdout, fs)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.help {
		printHelp(stdout, fs)
		return 0
	}

	var logger core.Logger = core.NewWriterLogger(stdout)
	var progress core.Progress = core.NopProgress{}
	if opts.quiet {
		logger = core.NopLogger{}
	} else {
		bar := newProgressBar(stderr, "Voxelizing")
		defer bar.Finish()
		progress = bar
	}

	if _, err := pipeline.New(opts.config, logger, progress).Run(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// parseFlags maps the command line onto the pipeline configuration
func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	opts := &options{}
	c := &opts.config

	fs.StringVar(&c.Input, "input", "", "Scene (.gltf, .glb) or point cloud (.ply) to voxelize")
	fs.StringVar(&c.Input, "i", "", "Shorthand for -input")
	fs.StringVar(&c.Builtin, "builtin", "", "Voxelize a built-in scene instead of an input file")
	fs.StringVar(&c.Output, "output", "", "Voxel file to write")
	fs.StringVar(&c.Output, "o", "", "Shorthand for -output")
	fs.Float64Var(&c.Resolution, "resolution", 0, "Voxel edge length in scene units")
	fs.Float64Var(&c.Resolution, "r", 0, "Shorthand for -resolution")
	fs.Float64Var(&c.Rotation.X, "x", 0, "Rotation about the X axis in degrees")
	fs.Float64Var(&c.Rotation.Y, "y", 0, "Rotation about the Y axis in degrees")
	fs.Float64Var(&c.Rotation.Z, "z", 0, "Rotation about the Z axis in degrees")
	fs.IntVar(&c.Workers, "workers", 0, "Worker goroutines (0 = number of CPUs)")
	fs.IntVar(&c.MeshCells, "cells", scene.DefaultMeshCells, "Marching cubes cells for built-in scenes")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress log output and the progress bar")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

func printHelp(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Voxelizer")
	fmt.Fprintln(w, "Usage: voxelizer -input <scene.glb|cloud.ply> -output <file.vox> -resolution <size> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Built-in scenes:")
	for _, info := range scene.ListBuiltins() {
		fmt.Fprintf(w, "  %-10s %s\n", info.Name, info.Description)
	}
}
