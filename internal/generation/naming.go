package generation

import (
	"strconv"
	"strings"
	"unicode"
)

// Converts camelCase into underscore_style. Only the "FFT" acronym is
// collapsed; everything else is split letter by letter.
func ToSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), "_f_f_t", "_fft")
}

// The Python method name for a member function of class.
func MethodName(function, class string) string {
	name := strings.TrimPrefix(function, class+"_")
	name = strings.TrimSuffix(name, extendedSuffix)
	return ToSnakeCase(name)
}

// Turns a C default argument into a Python literal: "Class::X" loses the
// qualification, and a float suffix "f" is dropped. A qualified name keeps a
// trailing "f" unless what remains is a float literal.
func FixDefault(literal, class string) string {
	if unqualified, found := strings.CutPrefix(literal, class+"::"); found {
		if isFloatLiteral(unqualified) {
			return strings.TrimSuffix(unqualified, "f")
		}
		return unqualified
	}
	return strings.TrimSuffix(literal, "f")
}

func isFloatLiteral(literal string) bool {
	number, found := strings.CutSuffix(literal, "f")
	if !found {
		return false
	}
	_, err := strconv.ParseFloat(number, 32)
	return err == nil
}
