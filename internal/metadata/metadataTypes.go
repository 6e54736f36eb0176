package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// The capacity of a returned "float *" buffer when a function does not declare one.
const DefaultBufferCapacity = 256

// The flat API as produced by the extraction step.
type API struct {
	Version   string
	Types     []string
	Enums     map[string]int
	Functions []Function
}

type Function struct {
	ReturnType string
	Name       string
	Params     []Parameter
	// Number of elements behind a returned "float *". Zero means DefaultBufferCapacity.
	BufferCapacity int
}

type Parameter struct {
	Type       string
	Name       string
	Default    string
	HasDefault bool
	// Set when the extraction step marked this slot as the implicit self handle.
	IsReceiver bool
}

// Returns the declared buffer capacity or the default one.
func (f Function) Capacity() int {
	if f.BufferCapacity > 0 {
		return f.BufferCapacity
	}
	return DefaultBufferCapacity
}

// Reports whether any parameter carries an explicit receiver tag.
func (f Function) HasTaggedReceiver() bool {
	for _, p := range f.Params {
		if p.IsReceiver {
			return true
		}
	}
	return false
}

// An empty slot stands for "no parameters".
func (p Parameter) IsEmpty() bool {
	return p.Type == ""
}

// Only named parameters can be exposed as keyword parameters.
func (p Parameter) IsNamed() bool {
	return p.Name != ""
}

type functionObject struct {
	ReturnType     string            `json:"returnType"`
	Name           string            `json:"name"`
	Params         []json.RawMessage `json:"params"`
	BufferCapacity int               `json:"bufferCapacity,omitempty"`
}

type parameterObject struct {
	Type     string  `json:"type"`
	Name     string  `json:"name,omitempty"`
	Default  *string `json:"default,omitempty"`
	Receiver bool    `json:"receiver,omitempty"`
}

// Accepts both the tuple form `[ret, name, [[type, name, default], ...]]` and
// the object form that can carry structural attributes.
func (f *Function) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty function descriptor")
	}

	if data[0] == '{' {
		var object functionObject
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}
		params, err := decodeParameters(object.Params)
		if err != nil {
			return fmt.Errorf("function '%s': %w", object.Name, err)
		}
		*f = Function{
			ReturnType:     object.ReturnType,
			Name:           object.Name,
			Params:         params,
			BufferCapacity: object.BufferCapacity,
		}
		return nil
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("function tuple must have 3 elements, got %d", len(tuple))
	}

	var returnType, name string
	if err := json.Unmarshal(tuple[0], &returnType); err != nil {
		return fmt.Errorf("could not read return type: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &name); err != nil {
		return fmt.Errorf("could not read function name: %w", err)
	}

	var rawParams []json.RawMessage
	if err := json.Unmarshal(tuple[2], &rawParams); err != nil {
		return fmt.Errorf("function '%s': could not read parameters: %w", name, err)
	}
	params, err := decodeParameters(rawParams)
	if err != nil {
		return fmt.Errorf("function '%s': %w", name, err)
	}

	*f = Function{ReturnType: returnType, Name: name, Params: params}
	return nil
}

func (p *Parameter) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var object parameterObject
		if err := json.Unmarshal(data, &object); err != nil {
			return err
		}
		*p = Parameter{Type: object.Type, Name: object.Name, IsReceiver: object.Receiver}
		if object.Default != nil {
			p.Default = *object.Default
			p.HasDefault = true
		}
		return nil
	}

	var tuple []string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) > 3 {
		return fmt.Errorf("parameter tuple has %d elements, at most 3 allowed", len(tuple))
	}

	*p = Parameter{}
	if len(tuple) > 0 {
		p.Type = strings.TrimSpace(tuple[0])
	}
	if len(tuple) > 1 {
		p.Name = tuple[1]
	}
	if len(tuple) > 2 {
		p.Default = tuple[2]
		p.HasDefault = true
	}
	return nil
}

func decodeParameters(raw []json.RawMessage) ([]Parameter, error) {
	params := make([]Parameter, 0, len(raw))
	for i, r := range raw {
		var param Parameter
		if err := json.Unmarshal(r, &param); err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		params = append(params, param)
	}
	return params, nil
}
