package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/opsassist/internal/cli/formatter"
	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/intelligence"
	"github.com/alexanderramin/opsassist/internal/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const usageHint = "Provide a request text. Example:\n  opsassist \"Generate a SQL query to list active employees\"\n"

type planOptions struct {
	noAudit      bool
	auditDir     string
	asJSON       bool
	schemaPath   string
	topN         int
	explainRoute bool
	interactive  bool
}

func bindPlanFlags(f *pflag.FlagSet, app *App, opts *planOptions) {
	f.BoolVar(&opts.noAudit, "no-audit", false, "Do not write an audit record")
	f.StringVar(&opts.auditDir, "audit-dir", app.AuditDir, "Directory for audit records")
	f.BoolVar(&opts.asJSON, "json", false, "Print the full response as JSON")
	f.StringVar(&opts.schemaPath, "schema", "", "Schema file (JSON or YAML) guiding SQL drafts")
	f.IntVar(&opts.topN, "top-n", 0, "Row limit for SQL drafts (default from config)")
	f.BoolVar(&opts.explainRoute, "explain-route", false, "Show keyword hits per intent")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "Fill in the request with a form")
}

func newPlanCmd(app *App) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan [text...]",
		Short: "Route a request and print its review plan",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, app, opts, args)
		},
	}
	bindPlanFlags(cmd.Flags(), app, opts)
	return cmd
}

func runPlan(cmd *cobra.Command, app *App, opts *planOptions, args []string) error {
	out := cmd.OutOrStdout()
	text := strings.TrimSpace(strings.Join(args, " "))
	schemaPath := opts.schemaPath

	if opts.interactive {
		if app.IsInteractive != nil && !app.IsInteractive() {
			return &ExitError{Code: 2, Err: errors.New("--interactive needs a terminal on stdin")}
		}
		prompt := app.Prompt
		if prompt == nil {
			prompt = promptRequest
		}
		if err := prompt(&text, &schemaPath); err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("reading request: %w", err)}
		}
		text = strings.TrimSpace(text)
		schemaPath = strings.TrimSpace(schemaPath)
	}

	if text == "" {
		fmt.Fprint(out, usageHint)
		return &ExitError{Code: 2}
	}
	if app.Planning == nil {
		return &ExitError{Code: 1, Err: errors.New("planning is not configured")}
	}

	req := contract.NewPlanRequest(text)
	req.SchemaPath = schemaPath
	auditDir := opts.auditDir
	if opts.noAudit || (!app.AuditEnabled && !cmd.Flags().Changed("audit-dir")) {
		auditDir = ""
	}
	audit := auditDir != ""
	req.Audit = &audit
	if cmd.Flags().Changed("top-n") {
		topN := opts.topN
		req.TopN = &topN
	}

	resp, err := app.Planning(auditDir).Plan(cmd.Context(), req)
	if err != nil {
		return planExitError(err)
	}

	if opts.asJSON {
		if err := writeJSON(out, resp); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, formatter.FormatPlan(resp))
		if opts.explainRoute {
			fmt.Fprint(out, formatter.FormatRouteScores(intelligence.Score(text)))
		}
	}

	if resp.AuditError != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: audit log not written: %s\n", resp.AuditError)
	} else if resp.AuditPath != "" && !opts.asJSON {
		fmt.Fprintf(out, "\nAudit log written: %s\n", resp.AuditPath)
	}
	return nil
}

// planExitError maps a planning failure to an exit code: 2 for bad input,
// 1 for everything else including unreadable schemas.
func planExitError(err error) error {
	var loadErr *schema.LoadError
	switch {
	case errors.Is(err, contract.ErrInvalidInput):
		return &ExitError{Code: 2, Err: err}
	case errors.As(err, &loadErr):
		return &ExitError{Code: 1, Err: loadErr}
	default:
		return &ExitError{Code: 1, Err: err}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
