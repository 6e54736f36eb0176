package generation

import (
	"fmt"
	"strings"

	"soloudgen/internal/metadata"
)

// Suffix naming the extended variant of a function.
const extendedSuffix = "Ex"

// FunctionIndex answers name lookups over the full function collection.
type FunctionIndex struct {
	functions map[string]metadata.Function
}

func NewFunctionIndex(functions []metadata.Function) FunctionIndex {
	index := FunctionIndex{functions: make(map[string]metadata.Function, len(functions))}
	for _, fn := range functions {
		index.functions[fn.Name] = fn
	}
	return index
}

func (index FunctionIndex) Lookup(name string) (metadata.Function, bool) {
	fn, found := index.functions[name]
	return fn, found
}

// Reports whether name has a sibling named name+"Ex". An extended variant
// never has a further variant of its own.
func (index FunctionIndex) HasExtendedVariant(name string) bool {
	if strings.HasSuffix(name, extendedSuffix) {
		return false
	}
	_, found := index.functions[name+extendedSuffix]
	return found
}

// Describes how the parameters of name and its extended variant disagree.
// The extended variant is expected to accept everything the plain one does,
// in the same order, optionally followed by more parameters.
func (index FunctionIndex) VariantMismatch(name string) (string, bool) {
	plain, found := index.functions[name]
	if !found {
		return "", false
	}
	extended, found := index.functions[name+extendedSuffix]
	if !found {
		return "", false
	}

	plainTypes := typedParams(plain)
	extendedTypes := typedParams(extended)
	if len(extendedTypes) < len(plainTypes) {
		return fmt.Sprintf("%s takes %d parameters but %s only %d", plain.Name, len(plainTypes), extended.Name, len(extendedTypes)), true
	}
	for i, p := range plainTypes {
		e := extendedTypes[i]
		if p.Type != e.Type {
			return fmt.Sprintf("parameter %d is '%s' in %s but '%s' in %s", i, p.Type, plain.Name, e.Type, extended.Name), true
		}
		if p.Name != e.Name {
			return fmt.Sprintf("parameter %d is named '%s' in %s but '%s' in %s", i, p.Name, plain.Name, e.Name, extended.Name), true
		}
	}
	return "", false
}

func typedParams(fn metadata.Function) []metadata.Parameter {
	params := make([]metadata.Parameter, 0, len(fn.Params))
	for _, p := range fn.Params {
		if !p.IsEmpty() {
			params = append(params, p)
		}
	}
	return params
}
