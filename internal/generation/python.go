package generation

import (
	"bytes"
	"fmt"
	"strings"
)

const pythonIndent = "    "

// The attribute holding the native handle on every generated instance.
const handleAttribute = "objhandle"

// The generated value of a released handle.
const nullHandle = "ctypes.c_void_p(0)"

type pyWriter struct {
	buf bytes.Buffer
}

func (w *pyWriter) line(depth int, format string, args ...any) {
	w.buf.WriteString(strings.Repeat(pythonIndent, depth))
	fmt.Fprintf(&w.buf, format, args...)
	w.buf.WriteByte('\n')
}

func (w *pyWriter) blank() {
	w.buf.WriteByte('\n')
}

// Renders the Python artifact: header, library loading, raw bindings and
// the class wrappers, in that order.
func RenderPython(module *Module) []byte {
	w := &pyWriter{}
	writeHeader(w, module)
	writeBindings(w, module.Bindings, libraryVariable(module))
	w.line(0, "# OOP wrappers")
	for _, class := range module.Classes {
		writeClass(w, class)
	}
	return w.buf.Bytes()
}

func libraryVariable(module *Module) string {
	return strings.ToLower(module.Product) + "_dll"
}

func writeHeader(w *pyWriter, module *Module) {
	w.line(0, "# %s wrapper for Python", module.Product)
	w.line(0, "# This file is autogenerated; any changes will be overwritten")
	w.blank()
	w.line(0, "import ctypes")
	w.line(0, "import sys")
	w.blank()
	w.line(0, "try:")
	w.line(1, "%s = ctypes.CDLL(%q)", libraryVariable(module), module.Library)
	w.line(0, "except OSError:")
	w.line(1, "print(%q)", fmt.Sprintf("%s dynamic link library (%s.dll on Windows) not found. Terminating.", module.Product, module.Library))
	w.line(1, "sys.exit(1)")
	w.blank()
}

func writeBindings(w *pyWriter, bindings []Binding, library string) {
	w.line(0, "# Raw DLL functions")
	for _, binding := range bindings {
		params := make([]string, 0, len(binding.Params))
		for _, p := range binding.Params {
			params = append(params, ctypesName(p))
		}
		w.line(0, "%s = %s.%s", binding.Symbol, library, binding.Symbol)
		w.line(0, "%s.restype = %s", binding.Symbol, ctypesName(binding.Return))
		w.line(0, "%s.argtypes = [%s]", binding.Symbol, strings.Join(params, ", "))
		w.blank()
	}
}

func writeClass(w *pyWriter, class Class) {
	w.blank()
	w.line(0, "class %s(object):", class.Name)
	for _, constant := range class.Constants {
		w.line(1, "%s = %d", constant.Name, constant.Value)
	}

	w.line(1, "def __init__(self):")
	w.line(2, "self.%s = %s()", handleAttribute, class.Constructor)

	w.line(1, "def _release(self):")
	w.line(2, "%s(self.%s)", class.Destructor, handleAttribute)
	w.line(2, "self.%s = %s", handleAttribute, nullHandle)

	w.line(1, "def __enter__(self):")
	w.line(2, "return self")

	w.line(1, "def __exit__(self, eType, eValue, eTrace):")
	w.line(2, "self._release()")
	w.line(2, "return False")

	for _, alias := range []string{"close", "destroy", "quit"} {
		w.line(1, "def %s(self):", alias)
		w.line(2, "self._release()")
	}

	for _, method := range class.Methods {
		writeMethod(w, method)
	}
}

func writeMethod(w *pyWriter, method Method) {
	signature := []string{"self"}
	for _, p := range method.Params {
		if p.HasDefault {
			signature = append(signature, p.Name+"="+p.Default)
		} else {
			signature = append(signature, p.Name)
		}
	}

	args := []string{"self." + handleAttribute}
	for _, a := range method.Args {
		args = append(args, argumentExpression(a))
	}
	call := fmt.Sprintf("%s(%s)", method.Symbol, strings.Join(args, ", "))

	w.line(1, "def %s(%s):", method.Name, strings.Join(signature, ", "))
	switch {
	case method.ReturnsBuffer():
		w.line(2, "floatbuf = %s", call)
		w.line(2, "return list(floatbuf.contents[:%d])", method.Return.Capacity)
	case method.ReturnsValue():
		w.line(2, "return %s", call)
	default:
		w.line(2, "%s", call)
	}
}

// Other wrapped instances are unwrapped to their handle; everything else is
// wrapped in its ctypes constructor.
func argumentExpression(a Argument) string {
	if a.Marshal.Kind == MarshalHandle {
		return a.Name + "." + handleAttribute
	}
	return fmt.Sprintf("%s(%s)", ctypesName(a.Marshal), a.Name)
}

func ctypesName(d Descriptor) string {
	switch d.Kind {
	case MarshalInt:
		return "ctypes.c_int"
	case MarshalVoid:
		return "None"
	case MarshalString:
		return "ctypes.c_char_p"
	case MarshalUint:
		return "ctypes.c_uint"
	case MarshalFloat:
		return "ctypes.c_float"
	case MarshalDouble:
		return "ctypes.c_double"
	case MarshalFloatBuffer:
		return fmt.Sprintf("ctypes.POINTER(ctypes.c_float * %d)", d.Capacity)
	case MarshalBytePointer:
		return "ctypes.POINTER(ctypes.c_ubyte)"
	case MarshalHandle:
		return "ctypes.c_void_p"
	}
	panic(fmt.Sprintf("no ctypes spelling for marshal kind %s", d.Kind))
}
