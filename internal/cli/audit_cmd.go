package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/opsassist/internal/audit"
	"github.com/alexanderramin/opsassist/internal/cli/formatter"
	"github.com/alexanderramin/opsassist/internal/contract"
	"github.com/alexanderramin/opsassist/internal/domain"
	"github.com/alexanderramin/opsassist/internal/service"
	"github.com/spf13/cobra"
)

func newAuditCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect recorded audit events",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	cmd.AddCommand(
		newAuditListCmd(app, &asJSON),
		newAuditShowCmd(app, &asJSON),
		newAuditStatsCmd(app, &asJSON),
	)
	return cmd
}

func newAuditListCmd(app *App, asJSON *bool) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent audit events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Audits == nil {
				return auditExitError(service.ErrAuditIndexDisabled)
			}
			entries, err := app.Audits.ListRecent(cmd.Context(), limit)
			if err != nil {
				return auditExitError(err)
			}
			if *asJSON {
				if entries == nil {
					entries = []*domain.AuditEntry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAuditList(entries, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show")
	return cmd
}

func newAuditShowCmd(app *App, asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one audit event and its record file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Audits == nil {
				return auditExitError(service.ErrAuditIndexDisabled)
			}
			record, err := app.Audits.Show(cmd.Context(), args[0])
			if err != nil {
				return auditExitError(err)
			}
			if *asJSON {
				return writeJSON(cmd.OutOrStdout(), record)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAuditRecord(record))
			return nil
		},
	}
}

func newAuditStatsCmd(app *App, asJSON *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how often each intent was recorded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Audits == nil {
				return auditExitError(service.ErrAuditIndexDisabled)
			}
			tallies, err := app.Audits.Tallies(cmd.Context())
			if err != nil {
				return auditExitError(err)
			}
			if *asJSON {
				if tallies == nil {
					tallies = []domain.IntentTally{}
				}
				return writeJSON(cmd.OutOrStdout(), tallies)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIntentTallies(tallies, app.now()))
			return nil
		},
	}
}

func auditExitError(err error) error {
	switch {
	case errors.Is(err, contract.ErrInvalidInput):
		return &ExitError{Code: 2, Err: err}
	case errors.Is(err, audit.ErrNotFound):
		return &ExitError{Code: 1, Err: errors.New("audit event not found")}
	default:
		return &ExitError{Code: 1, Err: err}
	}
}
