// Generates an object-oriented Python ctypes binding from an extracted flat C API description.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/janpfeifer/must"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"soloudgen/internal/generation"
	"soloudgen/internal/metadata"
)

func main() {
	defaults := generation.DefaultOptions()

	var inputPath = flag.String("input", "soloud_api.json", "The path or http(s) URL of the extracted API description.")
	var outputPath = flag.String("output", "soloud.py", "The path of the generated Python module.")
	var library = flag.String("library", defaults.Library, "The native shared library the generated module loads.")
	var product = flag.String("product", defaults.Product, "The product name used in the header and load diagnostic.")
	var goOutputPath = flag.String("goOutput", "", "If given, also writes a Go file with the library name, class constants and symbols.")
	var goPackage = flag.String("goPackage", "soloud", "The package name of the Go file written with -goOutput.")
	var debug = flag.Bool("debug", false, "Enables debug logging.")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "App that generates Python bindings for a flat C API.")
		flag.PrintDefaults()
	}

	flag.Parse()

	logger := newLogger(*debug)
	defer logger.Sync()
	metadata.SetLogger(logger.Named("metadata"))
	generation.SetLogger(logger.Named("generation"))

	options := generation.Options{Product: *product, Library: *library}
	module, err := run(*inputPath, *outputPath, *goOutputPath, *goPackage, options)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	printSummary(os.Stdout, module, *outputPath)
}

func run(inputPath, outputPath, goOutputPath, goPackage string, options generation.Options) (*generation.Module, error) {
	reader, err := metadata.NewReader(inputPath)
	if err != nil {
		if errors.Is(err, metadata.ErrInvalidAPI) {
			return nil, generation.InvalidInput(err)
		}
		return nil, err
	}

	generator := generation.NewGenerator(options)
	generator.RegisterAPI(reader.API())

	module, err := generator.Generate(outputPath)
	if err != nil {
		return nil, err
	}

	if goOutputPath != "" {
		if err := generator.GenerateGo(module, goOutputPath, goPackage); err != nil {
			return nil, err
		}
	}

	return module, nil
}

// Console output for interactive use, JSON otherwise.
func newLogger(debug bool) *zap.Logger {
	var config zap.Config
	if term.IsTerminal(int(os.Stderr.Fd())) {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	return must.M1(config.Build())
}
