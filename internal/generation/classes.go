package generation

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"soloudgen/internal/metadata"
)

// Module is everything the emitters need, with every type already mapped.
// Building it is the only step that can fail.
type Module struct {
	Product  string
	Library  string
	Bindings []Binding
	Classes  []Class
	Warnings []string
}

// Binding is the raw foreign declaration of one native function.
type Binding struct {
	Symbol string
	Return Descriptor
	Params []Descriptor
}

type Constant struct {
	Name  string
	Value int
}

type Class struct {
	Name        string
	Constructor string
	Destructor  string
	Constants   []Constant
	Methods     []Method
}

// Method is an instance method forwarding to a raw binding with the stored
// handle as its first argument.
type Method struct {
	Name   string
	Symbol string
	Params []MethodParam
	Args   []Argument
	Return Descriptor
}

type MethodParam struct {
	Name       string
	Default    string
	HasDefault bool
}

type Argument struct {
	Name    string
	Marshal Descriptor
}

func (m Method) ReturnsBuffer() bool {
	return m.Return.Kind == MarshalFloatBuffer
}

func (m Method) ReturnsValue() bool {
	return m.Return.Kind != MarshalVoid
}

type classMembers struct {
	name      string
	functions []metadata.Function
}

type moduleBuilder struct {
	api      metadata.API
	mapper   TypeMapper
	index    FunctionIndex
	warnings []string
}

// Builds the module for api. Members are grouped into classes over the full
// function collection first; classes are synthesized afterwards.
func BuildModule(api metadata.API, options Options) (*Module, error) {
	builder := moduleBuilder{
		api:    api,
		mapper: NewTypeMapper(api.Types),
		index:  NewFunctionIndex(api.Functions),
	}

	module := &Module{
		Product: options.Product,
		Library: options.Library,
	}

	for _, fn := range api.Functions {
		binding, err := builder.binding(fn)
		if err != nil {
			return nil, err
		}
		module.Bindings = append(module.Bindings, binding)
	}

	for _, members := range groupByClass(api.Types, api.Functions) {
		class, err := builder.class(members)
		if err != nil {
			return nil, err
		}
		module.Classes = append(module.Classes, class)
	}

	module.Warnings = builder.warnings
	return module, nil
}

// Pairs every type with its member functions, in type order. Types without
// members are dropped since classes are inferred, not declared.
func groupByClass(types []string, functions []metadata.Function) []classMembers {
	groups := make([]classMembers, 0, len(types))
	for _, typeName := range types {
		prefix := typeName + "_"
		members := classMembers{name: typeName}
		for _, fn := range functions {
			if strings.HasPrefix(fn.Name, prefix) {
				members.functions = append(members.functions, fn)
			}
		}
		if len(members.functions) > 0 {
			groups = append(groups, members)
		}
	}
	return groups
}

func (builder *moduleBuilder) binding(fn metadata.Function) (Binding, error) {
	ret, err := builder.mapper.MapFor(fn, fn.ReturnType)
	if err != nil {
		return Binding{}, err
	}

	binding := Binding{Symbol: fn.Name, Return: ret, Params: make([]Descriptor, 0, len(fn.Params))}
	for _, p := range fn.Params {
		if p.IsEmpty() {
			continue
		}
		d, err := builder.mapper.MapFor(fn, p.Type)
		if err != nil {
			return Binding{}, err
		}
		binding.Params = append(binding.Params, d)
	}
	return binding, nil
}

func (builder *moduleBuilder) class(members classMembers) (Class, error) {
	class := Class{
		Name:        members.name,
		Constructor: members.name + "_create",
		Destructor:  members.name + "_destroy",
		Constants:   classConstants(members.name, builder.api.Enums),
	}

	for _, lifecycle := range []string{class.Constructor, class.Destructor} {
		if _, found := builder.index.Lookup(lifecycle); !found {
			builder.warn(fmt.Sprintf("class %s has no %s", class.Name, lifecycle), zap.String("class", class.Name))
		}
	}

	// Names taken by the synthesized lifecycle surface.
	seen := map[string]string{
		"close":    class.Destructor,
		"destroy":  class.Destructor,
		"quit":     class.Destructor,
		"_release": class.Destructor,
	}
	for _, fn := range members.functions {
		name := MethodName(fn.Name, class.Name)
		if name == "create" || name == "destroy" {
			continue
		}
		if builder.index.HasExtendedVariant(fn.Name) {
			if detail, mismatch := builder.index.VariantMismatch(fn.Name); mismatch {
				builder.warn(fmt.Sprintf("%s is superseded by %s: %s", fn.Name, fn.Name+extendedSuffix, detail),
					zap.String("function", fn.Name))
			}
			continue
		}

		method, err := builder.method(fn, class.Name, name)
		if err != nil {
			return Class{}, err
		}
		if previous, found := seen[method.Name]; found {
			builder.warn(fmt.Sprintf("%s and %s both become %s.%s", previous, fn.Name, class.Name, method.Name),
				zap.String("function", fn.Name))
		}
		seen[method.Name] = fn.Name
		class.Methods = append(class.Methods, method)
	}

	return class, nil
}

func (builder *moduleBuilder) method(fn metadata.Function, class, name string) (Method, error) {
	ret, err := builder.mapper.MapFor(fn, fn.ReturnType)
	if err != nil {
		return Method{}, err
	}

	method := Method{Name: name, Symbol: fn.Name, Return: ret}
	receiver := receiverIndex(fn, class)
	for i, p := range fn.Params {
		if i == receiver || !p.IsNamed() {
			continue
		}
		d, err := builder.mapper.MapFor(fn, p.Type)
		if err != nil {
			return Method{}, err
		}

		param := MethodParam{Name: p.Name}
		if p.HasDefault {
			param.Default = FixDefault(p.Default, class)
			param.HasDefault = true
		}
		method.Params = append(method.Params, param)
		method.Args = append(method.Args, Argument{Name: p.Name, Marshal: d})
	}

	return method, nil
}

// The index of the implicit self handle in fn's parameters, or -1. An explicit
// receiver tag wins; without one the first parameter named "a"+class is used.
func receiverIndex(fn metadata.Function, class string) int {
	tagged := fn.HasTaggedReceiver()
	for i, p := range fn.Params {
		if tagged && p.IsReceiver {
			return i
		}
		if !tagged && p.Name == "a"+class {
			return i
		}
	}
	return -1
}

// Enum constants prefixed with the upper cased class name, ordered by value.
func classConstants(class string, enums map[string]int) []Constant {
	prefix := strings.ToUpper(class) + "_"
	var constants []Constant
	for name, value := range enums {
		if stripped, found := strings.CutPrefix(name, prefix); found {
			constants = append(constants, Constant{Name: stripped, Value: value})
		}
	}

	sort.Slice(constants, func(i, j int) bool {
		if constants[i].Value != constants[j].Value {
			return constants[i].Value < constants[j].Value
		}
		return constants[i].Name < constants[j].Name
	})
	return constants
}

func (builder *moduleBuilder) warn(message string, fields ...zap.Field) {
	Logger().Warn(message, fields...)
	builder.warnings = append(builder.warnings, message)
}
