package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/opsassist/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// opsassistHuhTheme returns a huh theme using the formatter palette.
func opsassistHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// requestForm asks for the request text and an optional schema file. Both
// values are prefilled from the command line.
func requestForm(text, schemaPath *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Request").
				Description("Describe what you need; it is routed, never executed.").
				Placeholder("Generate a SQL query to list active employees hired in the last 90 days").
				Value(text).
				Validate(validateRequestText),
			huh.NewInput().
				Title("Schema file").
				Description("Optional JSON or YAML table/column map for SQL drafts.").
				Placeholder("schema.json").
				Value(schemaPath).
				Validate(validateOptionalFile),
		),
	).WithTheme(opsassistHuhTheme()).WithShowHelp(false)
}

func promptRequest(text, schemaPath *string) error {
	return requestForm(text, schemaPath).Run()
}

func validateRequestText(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("enter a request")
	}
	return nil
}

// validateOptionalFile accepts empty or a path to an existing regular file.
func validateOptionalFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}
