package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgnsrekt/skim/internal/source"
	"github.com/dgnsrekt/skim/rsvp"
	humanize "github.com/dustin/go-humanize"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const statusBarHeight = 1

func (m model) View() string {
	if m.width == 0 {
		return ""
	}

	var body string
	switch m.state {
	case stateEmpty:
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, pausedStyle.Render("No text to read"))
	case stateFinished:
		body = m.finishedView()
	default:
		body = m.readerView()
	}

	var helpView string
	if m.showHelp {
		helpView = helpViewStyle.Render(m.help.View(m.keys))
	}

	bodyHeight := max(0, m.height-statusBarHeight-lipgloss.Height(helpView))
	if !m.showHelp {
		bodyHeight = max(0, m.height-statusBarHeight)
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceVertical(bodyHeight, lipgloss.Center, body))
	b.WriteString("\n")
	b.WriteString(m.statusBarView())
	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(helpView)
	}
	return b.String()
}

// readerView shows the current word between two guide marks that point at
// the fixation column, with the progress bar underneath.
func (m model) readerView() string {
	st := m.engine.State()
	p := m.engine.Progress()

	d, _ := m.engine.CurrentWordDisplay()
	line, col := wordLine(d, m.width, m.fixation)
	guide := strings.Repeat(" ", col) + guideStyle.Render("│")

	hint := " "
	if !st.Playing {
		hint = pausedStyle.Render("paused · space to play")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		guide,
		line,
		guide,
		"",
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.progress.ViewAs(p.Percentage/100)),
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, hint),
	)
}

// focusColumn is the terminal column the fixation character is held at.
// It sits a little left of centre because most of a word trails its
// fixation point.
func focusColumn(width int) int {
	return max(0, width*2/5)
}

// wordLine renders d so its fixation character lands on the focus column
// and returns the column it actually landed on. Words whose left part is
// wider than the focus column start at column zero.
func wordLine(d rsvp.WordDisplay, width int, fixation lipgloss.Style) (string, int) {
	col := focusColumn(width)
	left := runewidth.StringWidth(d.Left)
	pad := max(0, col-left)

	line := strings.Repeat(" ", pad) +
		wordStyle.Render(d.Left) +
		fixation.Render(d.Fixation) +
		wordStyle.Render(d.Right)

	if width > 0 && ansi.PrintableRuneWidth(line) > width {
		line = truncate.StringWithTail(line, uint(width), ellipsis) //nolint:gosec
	}
	return line, pad + left
}

func (m model) finishedView() string {
	sum := m.engine.Summary()

	box := overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		overlayTitleStyle.Render("Finished!"),
		"",
		fmt.Sprintf("%s words at ~%d WPM", humanize.Comma(int64(sum.Words)), sum.WPM),
		"",
		pausedStyle.Render("space to read again · q to quit"),
	))
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}

func (m model) statusBarView() string {
	p := m.engine.Progress()

	logo := logoStyle.Render("skim")
	percent := statusBarPercentStyle.Render(fmt.Sprintf(" %3.f%% ", p.Percentage))
	helpNote := statusBarHelpStyle.Render(" ? Help ")

	note, style := m.note(), statusBarNoteStyle
	if m.statusMessage != "" {
		note, style = m.statusMessage, statusBarMessageStyle
		if m.statusIsError {
			style = statusBarErrorStyle
		}
	}

	avail := max(0,
		m.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(percent)-
			ansi.PrintableRuneWidth(helpNote),
	)
	note = truncate.StringWithTail(" "+note+" ", uint(avail), ellipsis) //nolint:gosec
	padding := max(0, avail-ansi.PrintableRuneWidth(note))

	return logo + style.Render(note+strings.Repeat(" ", padding)) + percent + helpNote
}

// note summarises the source and reading settings for the status bar.
func (m model) note() string {
	st := m.engine.State()

	parts := []string{
		sourceLabel(m.src, m.cfg.HomeDir),
		humanize.Comma(int64(len(st.Words))) + " words",
		fmt.Sprintf("%d wpm", st.WPM),
	}
	if !st.SmartPauses {
		parts = append(parts, "smart pauses off")
	}
	if len(st.Words) > 0 && !st.Finished {
		parts = append(parts, timeLeft(m.engine.Remaining()))
	}
	return strings.Join(parts, " · ")
}

// sourceLabel names the source, shortening paths under home to ~.
func sourceLabel(src *source.Source, home string) string {
	if src.Kind != source.KindFile {
		return src.Name()
	}
	if home != "" && strings.HasPrefix(src.Location, home+"/") {
		return "~" + strings.TrimPrefix(src.Location, home)
	}
	return src.Location
}

// timeLeft formats the remaining reading time, e.g. "3 minutes left".
func timeLeft(d time.Duration) string {
	var epoch time.Time
	return humanize.RelTime(epoch, epoch.Add(d), "left", "left")
}
