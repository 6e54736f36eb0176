package generation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/golang-cz/textcase"
)

// Renders a Go companion file describing the Python module: the library name,
// the class constants, the bound symbols and the synthesized methods.
func RenderGo(module *Module, packageName string) ([]byte, error) {
	file := jen.NewFile(packageName)
	file.HeaderComment("Code generated by soloudgen. DO NOT EDIT.")

	file.Comment("Library is the native library loaded by the Python bindings.")
	file.Const().Id("Library").Op("=").Lit(module.Library)
	file.Line()

	for _, class := range module.Classes {
		if len(class.Constants) == 0 {
			continue
		}
		file.Commentf("%s class constants.", class.Name)
		file.Const().DefsFunc(func(g *jen.Group) {
			for _, constant := range class.Constants {
				g.Id(GoConstantName(class.Name, constant.Name)).Op("=").Lit(constant.Value)
			}
		})
		file.Line()
	}

	file.Comment("Symbols lists every native function bound by the Python module, in binding order.")
	file.Var().Id("Symbols").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, binding := range module.Bindings {
			g.Lit(binding.Symbol)
		}
	})
	file.Line()

	file.Comment("Methods lists the instance methods synthesized for every class.")
	file.Var().Id("Methods").Op("=").Map(jen.String()).Index().String().Values(jen.DictFunc(func(d jen.Dict) {
		for _, class := range module.Classes {
			d[jen.Lit(class.Name)] = jen.ValuesFunc(func(g *jen.Group) {
				for _, method := range class.Methods {
					g.Lit(method.Name)
				}
			})
		}
	}))

	var buf bytes.Buffer
	if err := file.Render(&buf); err != nil {
		return nil, fmt.Errorf("could not render Go constants: %w", err)
	}
	return buf.Bytes(), nil
}

// The exported Go name of a class constant, e.g. ("Soloud", "CLIP_ROUNDOFF") -> "SoloudClipRoundoff".
func GoConstantName(class, constant string) string {
	return textcase.PascalCase(class) + textcase.PascalCase(strings.ToLower(constant))
}
