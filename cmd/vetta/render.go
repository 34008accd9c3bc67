package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kbukum/vetta/earnings"
	apperrors "github.com/kbukum/vetta/errors"
	"github.com/kbukum/vetta/observability"
	"github.com/kbukum/vetta/util"
)

const indent = "   "

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r" + indent + "\x1b[K"

type renderer struct {
	w    io.Writer
	live bool

	title   lipgloss.Style
	dim     lipgloss.Style
	target  lipgloss.Style
	ok      lipgloss.Style
	heading lipgloss.Style
	running lipgloss.Style
	fail    lipgloss.Style
}

func newRenderer(w io.Writer) *renderer {
	r := lipgloss.NewRenderer(w)
	return &renderer{
		w:       w,
		title:   r.NewStyle().Bold(true),
		dim:     r.NewStyle().Faint(true),
		target:  r.NewStyle().Foreground(lipgloss.Color("3")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		heading: r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
		running: r.NewStyle().Foreground(lipgloss.Color("3")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

func (r *renderer) line(format string, args ...any) {
	fmt.Fprintf(r.w, indent+format+"\n", args...)
}

func (r *renderer) field(name, value string) {
	r.line("%s %s", r.dim.Render(fmt.Sprintf("%-10s", name)), value)
}

// Banner prints the product header.
func (r *renderer) Banner() {
	fmt.Fprintln(r.w)
	r.line("%s", r.title.Render("VETTA FINANCIAL ENGINE"))
	r.line("%s", r.dim.Render("======================"))
}

// Target prints what is about to be processed.
func (r *renderer) Target(p earnings.Period, file, socket string) {
	r.field("TARGET:", fmt.Sprintf("%s %s %s",
		r.target.Bold(true).Render(p.Ticker),
		r.target.Render(p.Quarter.String()),
		r.target.Render(fmt.Sprint(p.Year)),
	))
	r.field("INPUT:", file)
	r.field("SOCKET:", socket)
	fmt.Fprintln(r.w)
}

// Stage renders stage transitions. Failures are rendered by Failure.
func (r *renderer) Stage(ev earnings.StageEvent) {
	switch {
	case ev.Stage == earnings.StageValidation && ev.Status == earnings.StageCompleted:
		r.line("%s", r.ok.Render("✔ VALIDATION PASSED"))
		if ev.Media != nil {
			r.field("Format:", fmt.Sprintf("%s (%dMB)", ev.Media.MIMEType, ev.Media.SizeMB()))
		}
		fmt.Fprintln(r.w)
		r.line("%s", r.heading.Render("Processing Pipeline:"))
		r.line("1. [✔] Validation")
	case ev.Stage == earnings.StageStream && ev.Status == earnings.StageStarted:
		r.line("2. [%s] Transcription (Whisper)", r.running.Render("RUNNING"))
	}
}

// Progress overwrites the live line with the latest chunk.
func (r *renderer) Progress(p earnings.Progress) {
	fmt.Fprintf(r.w, "%s[%.1fs → %.1fs] %s", clearLine, p.Chunk.StartTime, p.Chunk.EndTime, strings.TrimSpace(p.Chunk.Text))
	r.live = true
}

func (r *renderer) endLive() {
	if r.live {
		fmt.Fprint(r.w, clearLine)
		r.live = false
	}
}

// Done prints the completed pipeline.
func (r *renderer) Done(s *earnings.Summary) {
	r.endLive()
	r.line("2. [✔] Transcription (%d segments)", s.Segments)
	r.line("3. [%s] Vector Embedding", r.dim.Render("WAITING"))
	fmt.Fprintln(r.w)
	r.field("Run:", s.RunID)
	r.field("Coverage:", fmt.Sprintf("%.1fs → %.1fs", s.SpanStart, s.SpanEnd))
	r.field("Speech:", fmt.Sprintf("%.1fs", s.Speech))
	r.field("Words:", fmt.Sprint(s.Words))
	if len(s.Speakers) > 0 {
		r.field("Speakers:", strings.Join(s.Speakers, ", "))
	}
	if s.OutOfOrder > 0 {
		r.field("Reordered:", fmt.Sprintf("%d segments", s.OutOfOrder))
	}
	r.field("Elapsed:", s.Elapsed.Round(time.Millisecond).String())
	fmt.Fprintln(r.w)
}

var stageTitles = map[earnings.Stage]string{
	earnings.StageValidation: "VALIDATION",
	earnings.StageConnect:    "CONNECTION",
	earnings.StageStream:     "TRANSCRIPTION",
}

// Failure prints a run error with its stage and code.
func (r *renderer) Failure(err error) {
	r.endLive()
	title := "RUN"
	if stage, ok := earnings.StageOf(err); ok && stageTitles[stage] != "" {
		title = stageTitles[stage]
	}
	fmt.Fprintln(r.w)
	r.line("%s", r.fail.Render("✖ "+title+" FAILED"))

	appErr := apperrors.Wrap(err)
	r.field("Code:", fmt.Sprintf("%s (%s)", appErr.Code, appErr.Class()))
	r.field("Reason:", appErr.Message)
	for _, k := range util.SortedKeys(appErr.Details) {
		r.field(k+":", fmt.Sprint(appErr.Details[k]))
	}
	fmt.Fprintln(r.w)
}

// Health prints one line per component.
func (r *renderer) Health(h *observability.ServiceHealth) {
	fmt.Fprintln(r.w)
	r.line("%s %s", r.title.Render(strings.ToUpper(h.Service)), r.dim.Render(h.Version))
	for _, c := range h.Components {
		mark := r.ok.Render("✔")
		if c.Status != observability.HealthStatusUp {
			mark = r.fail.Render("✖")
		}
		r.line("%s %s", mark, r.title.Render(c.Name))
		r.line("  %s", c.Message)
		if ep, ok := c.Details["endpoint"]; ok {
			r.field("  endpoint:", ep)
		}
	}
	fmt.Fprintln(r.w)
}
