package generation

import (
	"fmt"
	"strings"

	"soloudgen/internal/metadata"
)

// How a value crosses the foreign-function boundary.
type MarshalKind int

const (
	MarshalInvalid MarshalKind = iota
	MarshalInt
	MarshalVoid
	MarshalString
	MarshalUint
	MarshalFloat
	MarshalDouble
	MarshalFloatBuffer
	MarshalBytePointer
	MarshalHandle
)

var marshalKindNames = [...]string{
	MarshalInvalid:     "invalid",
	MarshalInt:         "int32",
	MarshalVoid:        "void",
	MarshalString:      "string",
	MarshalUint:        "uint32",
	MarshalFloat:       "float32",
	MarshalDouble:      "float64",
	MarshalFloatBuffer: "float-buffer",
	MarshalBytePointer: "byte-pointer",
	MarshalHandle:      "handle",
}

func (k MarshalKind) String() string {
	if k < 0 || int(k) >= len(marshalKindNames) {
		return fmt.Sprintf("MarshalKind(%d)", int(k))
	}
	return marshalKindNames[k]
}

// Descriptor is a marshalling tag. Capacity is only meaningful for MarshalFloatBuffer.
type Descriptor struct {
	Kind     MarshalKind
	Capacity int
}

// The C spellings with a fixed marshalling; opaque class pointers are added per run.
var builtInTypes = map[string]MarshalKind{
	"int":             MarshalInt,
	"void":            MarshalVoid,
	"const char *":    MarshalString,
	"unsigned int":    MarshalUint,
	"float":           MarshalFloat,
	"double":          MarshalDouble,
	"float *":         MarshalFloatBuffer,
	"unsigned char *": MarshalBytePointer,
}

// TypeMapper maps C type spellings to descriptors. Its vocabulary is closed:
// anything it does not know is an error, never a guess.
type TypeMapper struct {
	classes map[string]struct{}
}

func NewTypeMapper(types []string) TypeMapper {
	classes := make(map[string]struct{}, len(types))
	for _, t := range types {
		classes[t] = struct{}{}
	}
	return TypeMapper{classes: classes}
}

// Maps cType using the default float buffer capacity.
func (m TypeMapper) Map(cType string) (Descriptor, error) {
	return m.mapType(cType, metadata.DefaultBufferCapacity)
}

// Maps cType as used by fn, so that float buffers get fn's declared capacity.
func (m TypeMapper) MapFor(fn metadata.Function, cType string) (Descriptor, error) {
	d, err := m.mapType(cType, fn.Capacity())
	if err != nil {
		return Descriptor{}, inFunction(err, fn.Name)
	}
	return d, nil
}

func (m TypeMapper) mapType(cType string, capacity int) (Descriptor, error) {
	if kind, found := builtInTypes[cType]; found {
		d := Descriptor{Kind: kind}
		if kind == MarshalFloatBuffer {
			d.Capacity = capacity
		}
		return d, nil
	}

	if class, found := strings.CutSuffix(cType, " *"); found {
		if _, known := m.classes[class]; known {
			return Descriptor{Kind: MarshalHandle}, nil
		}
	}

	return Descriptor{}, unmappedType(cType)
}
