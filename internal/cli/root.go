package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/opsassist/internal/service"
	"github.com/spf13/cobra"
)

// App holds everything the commands need. Fields left nil disable the
// commands that use them.
type App struct {
	// Planning returns a planning service writing audit records to
	// auditDir. An empty auditDir records nothing.
	Planning func(auditDir string) service.PlanningService
	Audits   service.AuditService
	// Serve runs the HTTP shell on addr until ctx is cancelled.
	Serve func(ctx context.Context, addr string) error

	// AuditDir and AuditEnabled are the configured audit defaults.
	AuditDir     string
	AuditEnabled bool
	DefaultAddr  string

	IsInteractive func() bool
	// Prompt fills in a request interactively; defaults to a huh form.
	Prompt func(text, schemaPath *string) error
	Now    func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// ExitError carries a process exit code out of a command. Err may be nil
// when the command already told the user what went wrong.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewRootCmd creates the top-level "opsassist" command. Bare words are
// treated as a request, so "opsassist list active employees" plans it.
// Only plan, serve and audit are reserved as leading words; "help" is
// reserved only when it names a command.
func NewRootCmd(app *App) *cobra.Command {
	opts := &planOptions{}
	root := &cobra.Command{
		Use:           "opsassist [text...]",
		Short:         "Deterministic request routing, review plans and read-only SQL drafts",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, app, opts, args)
		},
	}
	bindPlanFlags(root.Flags(), app, opts)
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpCommand(newHelpCmd(app))

	root.AddCommand(
		newPlanCmd(app),
		newServeCmd(app),
		newAuditCmd(app),
	)
	return root
}

// newHelpCmd shows help for "help" alone or "help <command>". Any other
// words are planned as a request starting with "help".
func newHelpCmd(app *App) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "help [command | text...]",
		Short: "Help about any command",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			if len(args) == 0 {
				return root.Help()
			}
			if target, rest, err := root.Find(args); err == nil && target != root && len(rest) == 0 {
				return target.Help()
			}
			return runPlan(cmd, app, opts, append([]string{"help"}, args...))
		},
	}
	bindPlanFlags(cmd.Flags(), app, opts)
	return cmd
}
