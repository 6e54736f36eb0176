package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"soloudgen/internal/generation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Width(28).
			Foreground(lipgloss.Color("#87CEEB"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// Prints what was generated: one line per class plus any warnings.
func printSummary(w io.Writer, module *generation.Module, outputPath string) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s -> %s", module.Product, outputPath)))
	fmt.Fprintf(w, "%s\n", countStyle.Render(fmt.Sprintf("%d raw bindings, %d classes", len(module.Bindings), len(module.Classes))))

	for _, class := range module.Classes {
		fmt.Fprintf(w, "%s%s\n",
			classStyle.Render(class.Name),
			countStyle.Render(fmt.Sprintf("%3d methods %3d constants", len(class.Methods), len(class.Constants))))
	}

	for _, warning := range module.Warnings {
		fmt.Fprintln(w, warningStyle.Render("warning: "+warning))
	}
}
