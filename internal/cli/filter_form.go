package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/attendance/internal/attendance"
	"github.com/alexanderramin/attendance/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// attendanceHuhTheme styles huh forms with the formatter palette.
func attendanceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// filterValues backs the dashboard filter form fields.
type filterValues struct {
	from   string
	to     string
	worker string
	sort   string
}

func newFilterValues(f attendance.Filters, order attendance.Order) *filterValues {
	field := order.Field
	if field == "" {
		field = attendance.SortByDate
	}
	return &filterValues{
		from:   f.DateFrom,
		to:     f.DateTo,
		worker: f.WorkerKeyword,
		sort:   string(field),
	}
}

// filters returns the form values as report filters, validated as a whole.
func (v *filterValues) filters() (attendance.Filters, attendance.SortField, error) {
	f := attendance.Filters{
		DateFrom:      strings.TrimSpace(v.from),
		DateTo:        strings.TrimSpace(v.to),
		WorkerKeyword: v.worker,
	}
	if err := f.Validate(); err != nil {
		return attendance.Filters{}, "", err
	}
	field, err := attendance.ParseSortField(v.sort)
	if err != nil {
		return attendance.Filters{}, "", err
	}
	return f, field, nil
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || attendance.ValidDayKey(s) {
		return nil
	}
	return fmt.Errorf("use YYYY-MM-DD")
}

func newFilterForm(v *filterValues) *huh.Form {
	sortOptions := make([]huh.Option[string], 0, len(attendance.SortFields))
	for _, f := range attendance.SortFields {
		sortOptions = append(sortOptions, huh.NewOption(string(f), string(f)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("From (YYYY-MM-DD, blank for none)").
				Placeholder("2026-03-01").
				Value(&v.from).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("To (YYYY-MM-DD, blank for none)").
				Placeholder("2026-03-31").
				Value(&v.to).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Worker contains").
				Value(&v.worker),
			huh.NewSelect[string]().
				Title("Sort by").
				Options(sortOptions...).
				Value(&v.sort),
		),
	).WithTheme(attendanceHuhTheme()).WithShowHelp(false)
}
