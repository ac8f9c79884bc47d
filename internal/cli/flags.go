package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// sortFlag is a pflag.Value that only accepts known sort fields.
type sortFlag struct {
	field attendance.SortField
}

var _ pflag.Value = (*sortFlag)(nil)

func (f *sortFlag) String() string { return string(f.field) }

func (f *sortFlag) Set(s string) error {
	field, err := attendance.ParseSortField(s)
	if err != nil {
		return err
	}
	f.field = field
	return nil
}

func (f *sortFlag) Type() string { return "field" }

// reportFlags are the filter, order and output flags shared by the report commands.
type reportFlags struct {
	from    string
	to      string
	worker  string
	sort    sortFlag
	desc    bool
	now     string
	refresh bool
	json    bool
}

func (f *reportFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "Only include dates on or after YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "Only include dates on or before YYYY-MM-DD")
	fs.StringVar(&f.worker, "worker", "", "Only include workers whose name contains this text")
	fs.Var(&f.sort, "sort", "Sort summaries by "+sortFieldList())
	fs.BoolVar(&f.desc, "desc", false, "Reverse the sort order")
	fs.StringVar(&f.now, "now", "", "Evaluate open sessions as of this time (default: current time)")
	fs.BoolVar(&f.refresh, "refresh", false, "Fetch from the task service before reporting")
	fs.BoolVar(&f.json, "json", false, "Print JSON instead of tables")
}

func (f *reportFlags) request(loc *time.Location) (contract.ReportRequest, error) {
	req := contract.NewReportRequest()
	req.Filters = attendance.Filters{
		DateFrom:      strings.TrimSpace(f.from),
		DateTo:        strings.TrimSpace(f.to),
		WorkerKeyword: f.worker,
	}
	req.Order = attendance.Order{Field: f.sort.field, Desc: f.desc}
	req.Refresh = f.refresh

	if f.now != "" {
		now, ok := attendance.ParseTimestamp(f.now, loc)
		if !ok {
			return req, fmt.Errorf("invalid --now value %q", f.now)
		}
		req.Now = &now
	}
	return req, nil
}

func sortFieldList() string {
	names := make([]string, len(attendance.SortFields))
	for i, f := range attendance.SortFields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
