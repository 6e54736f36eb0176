package generation

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"soloudgen/internal"
	"soloudgen/internal/metadata"
)

// The product doubles as the artifact's library variable name.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type Options struct {
	// Product names the wrapped library in the header and in diagnostics.
	Product string
	// Library is the native shared library the artifact loads, without extension.
	Library string
}

func DefaultOptions() Options {
	return Options{
		Product: "SoLoud",
		Library: "soloud_x86",
	}
}

type Generator struct {
	Types     []string
	Enums     map[string]int
	Functions []metadata.Function
	Options   Options

	registeredTypes map[string]struct{}
}

func NewGenerator(options Options) Generator {
	return Generator{
		Types:           make([]string, 0),
		Enums:           make(map[string]int),
		Functions:       make([]metadata.Function, 0),
		Options:         options,
		registeredTypes: make(map[string]struct{}),
	}
}

func (generator *Generator) RegisterFunction(element metadata.Function) {
	generator.Functions = append(generator.Functions, element)
}

// Types keep their registration order; registering a type twice is a no-op.
func (generator *Generator) RegisterType(name string) {
	if _, found := generator.registeredTypes[name]; found {
		return
	}
	generator.registeredTypes[name] = struct{}{}
	generator.Types = append(generator.Types, name)
}

func (generator *Generator) RegisterEnum(name string, value int) {
	generator.Enums[name] = value
}

// Registers everything api describes.
func (generator *Generator) RegisterAPI(api metadata.API) {
	for _, typeName := range api.Types {
		generator.RegisterType(typeName)
	}
	for name, value := range api.Enums {
		generator.RegisterEnum(name, value)
	}
	for _, function := range api.Functions {
		generator.RegisterFunction(function)
	}
}

func (generator *Generator) API() metadata.API {
	return metadata.API{
		Types:     generator.Types,
		Enums:     generator.Enums,
		Functions: generator.Functions,
	}
}

// Maps every type and synthesizes every class without writing anything.
func (generator *Generator) Build() (*Module, error) {
	if generator.Options.Library == "" {
		return nil, &Error{Kind: KindInvalidInput, Detail: "no native library name configured"}
	}
	if generator.Options.Product == "" {
		return nil, &Error{Kind: KindInvalidInput, Detail: "no product name configured"}
	}
	if !identifierPattern.MatchString(generator.Options.Product) {
		return nil, &Error{
			Kind:   KindInvalidInput,
			Detail: fmt.Sprintf("product name '%s' is not a valid identifier", generator.Options.Product),
		}
	}

	module, err := BuildModule(generator.API(), generator.Options)
	if err != nil {
		return nil, err
	}

	Logger().Debug("module built",
		zap.Int("bindings", len(module.Bindings)),
		zap.Int("classes", len(module.Classes)),
		zap.Int("warnings", len(module.Warnings)))
	return module, nil
}

// Builds the module and writes the Python artifact to path. Nothing is
// written unless the whole module could be built.
func (generator *Generator) Generate(path string) (*Module, error) {
	module, err := generator.Build()
	if err != nil {
		return nil, err
	}

	if err := internal.WriteFileAtomic(path, RenderPython(module), 0644); err != nil {
		return nil, fmt.Errorf("could not write Python bindings: %w", err)
	}

	Logger().Info("Python bindings written", zap.String("path", path))
	return module, nil
}

// Writes the Go companion file for an already built module.
func (generator *Generator) GenerateGo(module *Module, path string, packageName string) error {
	source, err := RenderGo(module, packageName)
	if err != nil {
		return err
	}

	if err := internal.WriteFileAtomic(path, source, 0644); err != nil {
		return fmt.Errorf("could not write Go constants: %w", err)
	}

	Logger().Info("Go constants written", zap.String("path", path), zap.String("package", packageName))
	return nil
}
