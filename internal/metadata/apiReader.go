// The package used for reading and describing the flat C API handed over by the extraction step.
package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/janpfeifer/must"
	"go.uber.org/zap"
)

// Returned (wrapped) for every description that cannot be used for generation.
var ErrInvalidAPI = errors.New("invalid API description")

// The description schema versions this reader understands.
const supportedSchema = ">= 1.0, < 2.0"

// Versionless descriptions predate the version field and use the first schema.
const implicitSchemaVersion = "1.0"

var schemaConstraint = must.M1(version.NewConstraint(supportedSchema))

type APIReader struct {
	api API
}

type apiDocument struct {
	Version   string         `json:"version"`
	Types     []string       `json:"types"`
	Enums     map[string]int `json:"enums"`
	Functions []Function     `json:"functions"`
}

// Creates a reader for the description found under location, which is
// either a file path or an http(s) URL.
func NewReader(location string) (APIReader, error) {
	data, err := Fetch(location)
	if err != nil {
		return APIReader{}, err
	}

	api, err := ParseAPI(data)
	if err != nil {
		return APIReader{}, fmt.Errorf("could not read '%s': %w", location, err)
	}

	Logger().Debug("API description loaded",
		zap.String("location", location),
		zap.String("version", api.Version),
		zap.Int("types", len(api.Types)),
		zap.Int("enums", len(api.Enums)),
		zap.Int("functions", len(api.Functions)))

	return APIReader{api: api}, nil
}

// Decodes and validates a JSON API description.
func ParseAPI(data []byte) (API, error) {
	var document apiDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return API{}, fmt.Errorf("%w: %w", ErrInvalidAPI, err)
	}

	api := API{
		Version:   document.Version,
		Types:     document.Types,
		Enums:     document.Enums,
		Functions: document.Functions,
	}
	if api.Version == "" {
		api.Version = implicitSchemaVersion
	}
	if api.Enums == nil {
		api.Enums = make(map[string]int)
	}

	if err := validate(api); err != nil {
		return API{}, err
	}

	return api, nil
}

func (reader *APIReader) API() API {
	return reader.api
}

func validate(api API) error {
	schemaVersion, err := version.NewVersion(api.Version)
	if err != nil {
		return fmt.Errorf("%w: malformed version '%s': %w", ErrInvalidAPI, api.Version, err)
	}
	if !schemaConstraint.Check(schemaVersion) {
		return fmt.Errorf("%w: schema version %s does not satisfy '%s'", ErrInvalidAPI, api.Version, supportedSchema)
	}

	seenTypes := make(map[string]struct{}, len(api.Types))
	for _, typeName := range api.Types {
		if typeName == "" {
			return fmt.Errorf("%w: empty type name", ErrInvalidAPI)
		}
		if _, found := seenTypes[typeName]; found {
			return fmt.Errorf("%w: type '%s' is declared twice", ErrInvalidAPI, typeName)
		}
		seenTypes[typeName] = struct{}{}
	}

	seenFunctions := make(map[string]struct{}, len(api.Functions))
	for _, function := range api.Functions {
		if function.Name == "" {
			return fmt.Errorf("%w: function without a name", ErrInvalidAPI)
		}
		if _, found := seenFunctions[function.Name]; found {
			return fmt.Errorf("%w: function '%s' is declared twice", ErrInvalidAPI, function.Name)
		}
		if function.BufferCapacity < 0 {
			return fmt.Errorf("%w: function '%s' declares a negative buffer capacity", ErrInvalidAPI, function.Name)
		}
		for i, param := range function.Params {
			if param.HasDefault && strings.TrimSpace(param.Default) == "" {
				return fmt.Errorf("%w: parameter %d of function '%s' has an empty default value", ErrInvalidAPI, i, function.Name)
			}
		}
		seenFunctions[function.Name] = struct{}{}
	}

	return nil
}
