// Package teatest provides a synchronous test driver for bubbletea models.
//
// It replaces tea.Program in tests by calling Update() directly and
// synchronously draining returned Cmds, so model tests run without a
// terminal or goroutines of their own.
//
// Cmds that block on timers (cursor blink, ticks) are run with a short
// timeout and skipped if they don't return promptly.
package teatest

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth is the safety limit for command draining to prevent infinite loops.
const MaxDrainDepth = 100

// cmdTimeout separates message factories and service calls, which return
// in microseconds, from timer Cmds that block for hundreds of milliseconds.
const cmdTimeout = 10 * time.Millisecond

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when tea.QuitMsg is seen during drain.
	Quitting bool

	// Seen records the type of every message fed through Update, in order.
	Seen []string
}

// Option configures the Driver during construction.
type Option func(*Driver)

// New creates a Driver for the given model and applies options.
// Call DrainInit() after construction to process the model's Init() command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		d.update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// DrainInit executes the model's Init() command and drains all resulting messages.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches a message through Update and drains all resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.drainCmd(d.update(msg), 0)
}

// SendNoDrain dispatches a message and returns the resulting Cmd without
// running it, so tests can decide when (or whether) its result arrives.
func (d *Driver) SendNoDrain(msg tea.Msg) tea.Cmd {
	d.T.Helper()
	return d.update(msg)
}

// ── Key event helpers ────────────────────────────────────────────────────────

// PressKey sends a character key (rune).
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressType sends a special key such as tea.KeyEnter or tea.KeyTab.
func (d *Driver) PressType(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() { d.T.Helper(); d.PressType(tea.KeyEnter) }

// PressEsc sends the Escape key.
func (d *Driver) PressEsc() { d.T.Helper(); d.PressType(tea.KeyEsc) }

// PressTab sends the Tab key.
func (d *Driver) PressTab() { d.T.Helper(); d.PressType(tea.KeyTab) }

// PressShiftTab sends Shift+Tab.
func (d *Driver) PressShiftTab() { d.T.Helper(); d.PressType(tea.KeyShiftTab) }

// PressCtrlC sends Ctrl+C.
func (d *Driver) PressCtrlC() { d.T.Helper(); d.PressType(tea.KeyCtrlC) }

// Type sends a string character by character as individual key events.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// ── View inspection ──────────────────────────────────────────────────────────

// View returns the full rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// PlainView returns the rendered output with ANSI escape sequences removed.
func (d *Driver) PlainView() string {
	return ansiRe.ReplaceAllString(d.Model.View(), "")
}

// AssertViewContains fails the test when the plain view lacks any of want.
func (d *Driver) AssertViewContains(want ...string) {
	d.T.Helper()
	view := d.PlainView()
	for _, w := range want {
		if !strings.Contains(view, w) {
			d.T.Errorf("view does not contain %q:\n%s", w, view)
		}
	}
}

// AssertViewNotContains fails the test when the plain view has any of unwanted.
func (d *Driver) AssertViewNotContains(unwanted ...string) {
	d.T.Helper()
	view := d.PlainView()
	for _, u := range unwanted {
		if strings.Contains(view, u) {
			d.T.Errorf("view unexpectedly contains %q:\n%s", u, view)
		}
	}
}

// ── Command draining ─────────────────────────────────────────────────────────

func (d *Driver) update(msg tea.Msg) tea.Cmd {
	d.Seen = append(d.Seen, fmt.Sprintf("%T", msg))
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	return cmd
}

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg := execCmdWithTimeout(cmd)
	if msg == nil || isCursorBlink(msg) {
		return
	}

	switch m := msg.(type) {
	case tea.BatchMsg:
		for _, sub := range m {
			d.drainCmd(sub, depth+1)
		}
	case tea.QuitMsg:
		d.Quitting = true
		d.update(m)
	default:
		d.drainCmd(d.update(m), depth+1)
	}
}

// execCmdWithTimeout runs a tea.Cmd in a goroutine and returns nil if it
// doesn't complete within cmdTimeout.
func execCmdWithTimeout(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdTimeout):
		return nil
	}
}

// isCursorBlink detects cursor blink messages from the bubbles/cursor package.
// Their types are unexported, so match on the type name.
func isCursorBlink(msg tea.Msg) bool {
	t := fmt.Sprintf("%T", msg)
	return strings.Contains(t, "Blink") || strings.Contains(t, "blink")
}
