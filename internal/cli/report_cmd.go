package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alexanderramin/attendance/internal/cli/formatter"
	"github.com/alexanderramin/attendance/internal/contract"
	"github.com/alexanderramin/attendance/internal/domain"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show daily hours per worker, worker totals and anomalies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := runReport(cmd, app, &flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return writeJSON(out, resp)
			}
			fmt.Fprint(out, formatter.FormatReport(resp, formatter.ReportView{
				Summaries: true,
				Workers:   true,
				Anomalies: true,
			}, app.location()))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newAnomaliesCmd(app *App) *cobra.Command {
	var flags reportFlags
	var types []string

	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "List overlapping, overtime and unclosed sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keep, err := parseAnomalyTypes(types)
			if err != nil {
				return err
			}
			resp, err := runReport(cmd, app, &flags)
			if err != nil {
				return err
			}
			anomalies := filterAnomalies(resp.Anomalies, keep)

			out := cmd.OutOrStdout()
			if flags.json {
				return writeJSON(out, anomalies)
			}
			if resp.FetchError != nil {
				fmt.Fprintln(out, formatter.FormatFetchBanner(resp.FetchError))
			}
			fmt.Fprint(out, formatter.FormatAnomalies(anomalies))
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringSliceVar(&types, "type", nil, "Only show these anomaly types (missing-end, overtime, overlap)")
	return cmd
}

func newSessionsCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List every normalized work session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := runReport(cmd, app, &flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if flags.json {
				return writeJSON(out, resp.Sessions)
			}
			if resp.FetchError != nil {
				fmt.Fprintln(out, formatter.FormatFetchBanner(resp.FetchError))
			}
			fmt.Fprint(out, formatter.FormatSessions(resp.Sessions, app.location()))
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func runReport(cmd *cobra.Command, a *App, flags *reportFlags) (*contract.ReportResponse, error) {
	req, err := flags.request(a.location())
	if err != nil {
		return nil, err
	}
	return a.Attendance.Report(cmd.Context(), req)
}

func parseAnomalyTypes(values []string) (map[domain.AnomalyType]bool, error) {
	if len(values) == 0 {
		return nil, nil
	}
	keep := make(map[domain.AnomalyType]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(strings.ToLower(v))
		if !domain.ValidAnomalyTypes[v] {
			valid := make([]string, 0, len(domain.ValidAnomalyTypes))
			for t := range domain.ValidAnomalyTypes {
				valid = append(valid, t)
			}
			sort.Strings(valid)
			return nil, fmt.Errorf("unknown anomaly type %q (want %s)", v, strings.Join(valid, ", "))
		}
		keep[domain.AnomalyType(v)] = true
	}
	return keep, nil
}

func filterAnomalies(anomalies []domain.Anomaly, keep map[domain.AnomalyType]bool) []domain.Anomaly {
	if keep == nil {
		return anomalies
	}
	out := make([]domain.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		if keep[a.Type] {
			out = append(out, a)
		}
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
