package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"plexilc/internal/buildpipeline"
)

// stageWeight is the share of a plan's work finished once a stage starts.
var stageWeight = map[buildpipeline.Stage]float64{
	buildpipeline.StageRead:      0.1,
	buildpipeline.StageAnalyze:   0.3,
	buildpipeline.StageEmit:      0.6,
	buildpipeline.StageTranslate: 0.8,
	buildpipeline.StageWrite:     0.95,
}

var stageVerb = map[buildpipeline.Stage]string{
	buildpipeline.StageRead:      "reading",
	buildpipeline.StageAnalyze:   "checking",
	buildpipeline.StageEmit:      "emitting",
	buildpipeline.StageTranslate: "translating",
	buildpipeline.StageWrite:     "writing",
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const labelWidth = 11

// planRow is one input plan on the board.
type planRow struct {
	name    string
	status  buildpipeline.Status
	stage   buildpipeline.Stage
	elapsed time.Duration
}

func (r planRow) finished() bool {
	return r.status == buildpipeline.StatusDone || r.status == buildpipeline.StatusError
}

func (r planRow) label() string {
	switch r.status {
	case buildpipeline.StatusDone:
		return "ok"
	case buildpipeline.StatusError:
		return "failed"
	case buildpipeline.StatusWorking:
		if verb, ok := stageVerb[r.stage]; ok {
			return verb
		}
	}
	return "queued"
}

func (r planRow) style() lipgloss.Style {
	switch r.status {
	case buildpipeline.StatusDone:
		return okStyle
	case buildpipeline.StatusError:
		return failedStyle
	case buildpipeline.StatusWorking:
		return workingStyle
	default:
		return queuedStyle
	}
}

// batchBoard renders the plans of one batch with a shared progress bar.
type batchBoard struct {
	title  string
	events <-chan buildpipeline.Event
	spin   spinner.Model
	bar    progress.Model
	rows   []planRow
	byFile map[string]int
	phase  string // batch-wide activity, from events without a file
	width  int
	closed bool
}

type (
	eventMsg  buildpipeline.Event
	closedMsg struct{}
)

// NewProgressModel returns a Bubble Tea model that tracks files through the
// compile stages. It quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(workingStyle))
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60

	b := &batchBoard{
		title:  title,
		events: events,
		spin:   spin,
		bar:    bar,
		rows:   make([]planRow, len(files)),
		byFile: make(map[string]int, len(files)),
		width:  80,
	}
	for i, f := range files {
		b.rows[i] = planRow{name: f, status: buildpipeline.StatusQueued}
		b.byFile[f] = i
	}
	return b
}

func (b *batchBoard) Init() tea.Cmd {
	return tea.Batch(b.spin.Tick, b.next())
}

func (b *batchBoard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return b, tea.Batch(b.apply(buildpipeline.Event(msg)), b.next())
	case closedMsg:
		b.closed = true
		return b, tea.Quit
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			b.width = msg.Width
			b.bar.Width = max(msg.Width-20, 10)
		}
	case spinner.TickMsg:
		if !b.closed {
			var cmd tea.Cmd
			b.spin, cmd = b.spin.Update(msg)
			return b, cmd
		}
	case progress.FrameMsg:
		m, cmd := b.bar.Update(msg)
		b.bar = m.(progress.Model)
		return b, cmd
	}
	return b, nil
}

// next waits for one pipeline event.
func (b *batchBoard) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-b.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (b *batchBoard) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			b.phase = stageVerb[ev.Stage]
		}
		return nil
	}
	i, ok := b.byFile[ev.File]
	if !ok {
		return nil
	}
	row := &b.rows[i]
	row.status = ev.Status
	if ev.Stage != "" {
		row.stage = ev.Stage
	}
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	return b.bar.SetPercent(b.completion())
}

// completion is the mean progress over all plans, in [0, 1].
func (b *batchBoard) completion() float64 {
	if len(b.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range b.rows {
		switch {
		case r.finished():
			sum++
		case r.status == buildpipeline.StatusWorking:
			sum += stageWeight[r.stage]
		}
	}
	return sum / float64(len(b.rows))
}

func (b *batchBoard) counts() (finished, failed int) {
	for _, r := range b.rows {
		if r.finished() {
			finished++
		}
		if r.status == buildpipeline.StatusError {
			failed++
		}
	}
	return finished, failed
}

func (b *batchBoard) View() string {
	if len(b.rows) == 0 {
		return ""
	}
	finished, failed := b.counts()

	lead := b.spin.View()
	if b.closed {
		lead = okStyle.Render("✓")
		if failed > 0 {
			lead = failedStyle.Render("✗")
		}
	}
	header := fmt.Sprintf("%s %d/%d", b.title, finished, len(b.rows))
	if b.phase != "" && !b.closed {
		header += " (" + b.phase + ")"
	}

	var sb strings.Builder
	sb.WriteString(lead + " " + headerStyle.Render(header) + "\n\n")

	nameWidth := max(b.width-labelWidth-14, 20)
	for _, r := range b.rows {
		label := r.style().Render(fmt.Sprintf("%-*s", labelWidth, r.label()))
		fmt.Fprintf(&sb, "  %s %s", label, truncate(r.name, nameWidth))
		if r.finished() && r.elapsed > 0 {
			sb.WriteString(queuedStyle.Render(" " + r.elapsed.Round(time.Millisecond).String()))
		}
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	if b.closed {
		sb.WriteString(b.bar.ViewAs(1))
	} else {
		sb.WriteString(b.bar.View())
	}
	if failed > 0 {
		sb.WriteString(failedStyle.Render(fmt.Sprintf("  %d failed", failed)))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// truncate shortens value to width terminal cells, ending in "..." when
// there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
