package generation

import (
	"errors"
	"os"
	"strings"
	"testing"

	"soloudgen/internal/metadata"
)

func buildModule(t *testing.T, api metadata.API) *Module {
	t.Helper()
	module, err := BuildModule(api, DefaultOptions())
	if err != nil {
		t.Fatalf("BuildModule() error = %v", err)
	}
	return module
}

func findClass(t *testing.T, module *Module, name string) Class {
	t.Helper()
	for _, class := range module.Classes {
		if class.Name == name {
			return class
		}
	}
	t.Fatalf("class %s was not synthesized", name)
	return Class{}
}

func methodNames(class Class) []string {
	names := make([]string, 0, len(class.Methods))
	for _, method := range class.Methods {
		names = append(names, method.Name)
	}
	return names
}

func TestBuildModule_ExtendedVariantSupersedesPlain(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Foo"},
		Functions: []metadata.Function{
			fn("Foo *", "Foo_create"),
			fn("void", "Foo_destroy", param("Foo *", "aFoo")),
			fn("int", "Foo_bar", param("Foo *", "aFoo")),
			fn("int", "Foo_barEx", param("Foo *", "aFoo"), paramWithDefault("float", "aVolume", "1.0f")),
		},
	})

	class := findClass(t, module, "Foo")
	if len(class.Methods) != 1 {
		t.Fatalf("methods = %v, want exactly [bar]", methodNames(class))
	}
	bar := class.Methods[0]
	if bar.Name != "bar" || bar.Symbol != "Foo_barEx" {
		t.Errorf("bar = %+v, want it derived from Foo_barEx", bar)
	}
	if len(bar.Params) != 1 || bar.Params[0].Name != "aVolume" || bar.Params[0].Default != "1.0" {
		t.Errorf("bar params = %+v", bar.Params)
	}

	// Both functions still get raw bindings.
	if len(module.Bindings) != 4 {
		t.Errorf("len(Bindings) = %d, want 4", len(module.Bindings))
	}
}

func TestBuildModule_ExtendedWithoutPlainIsIndependent(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Foo"},
		Functions: []metadata.Function{
			fn("void", "Foo_fadeEx", param("Foo *", "aFoo"), param("float", "aTo")),
		},
	})

	class := findClass(t, module, "Foo")
	if len(class.Methods) != 1 || class.Methods[0].Name != "fade" || class.Methods[0].Symbol != "Foo_fadeEx" {
		t.Errorf("methods = %+v", class.Methods)
	}
}

func TestBuildModule_FloatBufferReturn(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Foo"},
		Functions: []metadata.Function{
			fn("float *", "Foo_getBuffer", param("Foo *", "aFoo")),
			{ReturnType: "float *", Name: "Foo_getWave", Params: []metadata.Parameter{param("Foo *", "aFoo")}, BufferCapacity: 32},
		},
	})

	class := findClass(t, module, "Foo")
	buffer := class.Methods[0]
	if !buffer.ReturnsBuffer() || buffer.Return.Capacity != 256 {
		t.Errorf("get_buffer return = %+v, want a 256 element buffer", buffer.Return)
	}
	wave := class.Methods[1]
	if !wave.ReturnsBuffer() || wave.Return.Capacity != 32 {
		t.Errorf("get_wave return = %+v, want a 32 element buffer", wave.Return)
	}
}

func TestBuildModule_NoMembersNoClass(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Foo", "Bar"},
		Functions: []metadata.Function{
			fn("Bar *", "Bar_create"),
			fn("void", "Bar_destroy", param("Bar *", "aBar")),
			fn("int", "Foobar_count"),
			fn("int", "version"),
		},
	})

	if len(module.Classes) != 1 || module.Classes[0].Name != "Bar" {
		t.Fatalf("classes = %+v, want only Bar", module.Classes)
	}
	bar := module.Classes[0]
	if len(bar.Methods) != 0 {
		t.Errorf("Bar methods = %v, want lifecycle only", methodNames(bar))
	}
	if bar.Constructor != "Bar_create" || bar.Destructor != "Bar_destroy" {
		t.Errorf("lifecycle = %s/%s", bar.Constructor, bar.Destructor)
	}
	if len(module.Bindings) != 4 {
		t.Errorf("raw bindings = %d, want every function", len(module.Bindings))
	}
	if len(module.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", module.Warnings)
	}
}

func TestBuildModule_ReceiverAndArguments(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Soloud", "Wav"},
		Functions: []metadata.Function{
			fn("unsigned int", "Soloud_play",
				param("Soloud *", "aSoloud"),
				param("Wav *", "aSound"),
				paramWithDefault("float", "aVolume", "-1.0f"),
				paramWithDefault("unsigned int", "aBus", "0")),
			fn("void", "Soloud_mix", param("Soloud *", "aSoloud"), param("Soloud *", "aSoloud")),
			{ReturnType: "int", Name: "Soloud_attach", Params: []metadata.Parameter{
				param("Soloud *", "aOther"),
				{Type: "Soloud *", Name: "aEngine", IsReceiver: true},
			}},
			fn("void", "Soloud_stopAll", param("Soloud *", "aSoloud"), metadata.Parameter{Type: "int"}),
		},
	})

	class := findClass(t, module, "Soloud")

	play := class.Methods[0]
	if len(play.Params) != 3 || play.Params[0].Name != "aSound" || play.Params[1].Default != "-1.0" || play.Params[2].Default != "0" {
		t.Errorf("play params = %+v", play.Params)
	}
	if play.Args[0].Marshal.Kind != MarshalHandle || play.Args[1].Marshal.Kind != MarshalFloat || play.Args[2].Marshal.Kind != MarshalUint {
		t.Errorf("play args = %+v", play.Args)
	}

	// Only one receiver slot is elided.
	mix := class.Methods[1]
	if len(mix.Params) != 1 || mix.Params[0].Name != "aSoloud" {
		t.Errorf("mix params = %+v", mix.Params)
	}

	// An explicit tag wins over the name convention.
	attach := class.Methods[2]
	if len(attach.Params) != 1 || attach.Params[0].Name != "aOther" {
		t.Errorf("attach params = %+v", attach.Params)
	}

	// Unnamed slots are not exposed.
	stopAll := class.Methods[3]
	if stopAll.Name != "stop_all" || len(stopAll.Params) != 0 {
		t.Errorf("stop_all = %+v", stopAll)
	}
	if len(module.Bindings[3].Params) != 2 {
		t.Errorf("raw stopAll argtypes = %+v, want the unnamed int kept", module.Bindings[3].Params)
	}
}

func TestBuildModule_ClassConstants(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Soloud", "Wav"},
		Enums: map[string]int{
			"SOLOUD_AUTO":           0,
			"SOLOUD_CLIP_ROUNDOFF":  1,
			"SOLOUD_ENABLE_VISUALS": 1,
			"SOLOUD_SDL":            2,
			"WAV_MAX":               9,
			"SOLOUDX_NOPE":          3,
		},
		Functions: []metadata.Function{
			fn("Soloud *", "Soloud_create"),
		},
	})

	class := findClass(t, module, "Soloud")
	want := []Constant{{"AUTO", 0}, {"CLIP_ROUNDOFF", 1}, {"ENABLE_VISUALS", 1}, {"SDL", 2}}
	if len(class.Constants) != len(want) {
		t.Fatalf("constants = %+v, want %+v", class.Constants, want)
	}
	for i := range want {
		if class.Constants[i] != want[i] {
			t.Errorf("constant %d = %+v, want %+v", i, class.Constants[i], want[i])
		}
	}
}

func TestBuildModule_Warnings(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Foo"},
		Functions: []metadata.Function{
			fn("void", "Foo_seek", param("Foo *", "aFoo"), param("double", "aSeconds")),
			fn("void", "Foo_seekEx", param("Foo *", "aFoo"), param("float", "aSeconds")),
			fn("int", "Foo_getFFT", param("Foo *", "aFoo")),
			fn("int", "Foo_getFft", param("Foo *", "aFoo")),
		},
	})

	// Missing create, missing destroy, the seek mismatch and the get_fft collision.
	if len(module.Warnings) != 4 {
		t.Errorf("warnings = %v, want 4", module.Warnings)
	}

	class := findClass(t, module, "Foo")
	if names := methodNames(class); len(names) != 3 || names[0] != "seek" || class.Methods[0].Symbol != "Foo_seekEx" {
		t.Errorf("methods = %v", names)
	}
}

func TestBuildModule_LifecycleNameCollision(t *testing.T) {
	module := buildModule(t, metadata.API{
		Types: []string{"Foo"},
		Functions: []metadata.Function{
			fn("Foo *", "Foo_create"),
			fn("void", "Foo_destroy", param("Foo *", "aFoo")),
			fn("void", "Foo_close", param("Foo *", "aFoo")),
			fn("void", "Foo_quit", param("Foo *", "aFoo")),
		},
	})

	if len(module.Warnings) != 2 {
		t.Fatalf("warnings = %v, want one per shadowed lifecycle method", module.Warnings)
	}
	for _, warning := range module.Warnings {
		if !strings.Contains(warning, "Foo_destroy and Foo_") {
			t.Errorf("warning %q does not name the destructor", warning)
		}
	}
}

func TestBuildModule_UnmappedTypeFails(t *testing.T) {
	tests := []struct {
		name string
		fn   metadata.Function
	}{
		{"return", fn("short", "Foo_get", param("Foo *", "aFoo"))},
		{"parameter", fn("void", "Foo_set", param("Foo *", "aFoo"), param("long long", "aValue"))},
		{"unknown class", fn("void", "free", param("Bus *", "aBus"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildModule(metadata.API{Types: []string{"Foo"}, Functions: []metadata.Function{tt.fn}}, DefaultOptions())
			if !errors.Is(err, ErrUnmappedType) {
				t.Fatalf("BuildModule() error = %v, want ErrUnmappedType", err)
			}
			var genErr *Error
			if errors.As(err, &genErr) && genErr.Function != tt.fn.Name {
				t.Errorf("error names %q, want %q", genErr.Function, tt.fn.Name)
			}
		})
	}
}

func TestBuildModule_SampleAPI(t *testing.T) {
	data, err := os.ReadFile("testdata/soloud_api.json")
	if err != nil {
		t.Fatal(err)
	}
	api, err := metadata.ParseAPI(data)
	if err != nil {
		t.Fatal(err)
	}

	module := buildModule(t, api)
	if len(module.Bindings) != len(api.Functions) {
		t.Errorf("len(Bindings) = %d, want %d", len(module.Bindings), len(api.Functions))
	}

	soloud := findClass(t, module, "Soloud")
	names := map[string]bool{}
	for _, name := range methodNames(soloud) {
		if names[name] {
			t.Errorf("method %s synthesized twice", name)
		}
		names[name] = true
	}
	for _, want := range []string{"init", "play", "calc_fft", "get_wave", "set_global_volume"} {
		if !names[want] {
			t.Errorf("Soloud lacks method %s", want)
		}
	}
	if len(module.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", module.Warnings)
	}
}
