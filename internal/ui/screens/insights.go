// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/markdown"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/ui/components"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// insightWindows are the selectable report ranges, in toggle order.
var insightWindows = []string{"7d", "30d", "90d"}

// =============================================================================
// INSIGHTS SCREEN
// =============================================================================

// Insights shows the behavioral analysis report: a markdown summary,
// per-metric scores with trend arrows, and the mood trend chart. All
// interpretation happens server-side; this screen only renders.
type Insights struct {
	theme    *styles.Theme
	client   *api.Client
	renderer *markdown.Renderer

	report *model.InsightReport
	window string

	spinner components.Spinner
	loading bool
	err     error

	width  int
	height int
}

// NewInsights creates the insights screen.
func NewInsights(theme *styles.Theme, client *api.Client) *Insights {
	renderer, err := markdown.NewRenderer(70)
	if err != nil {
		renderer = nil
	}
	return &Insights{
		theme:    theme,
		client:   client,
		renderer: renderer,
		window:   insightWindows[0],
		spinner:  components.NewRefreshSpinner(),
	}
}

// SetSize resizes the screen.
func (i *Insights) SetSize(width, height int) {
	i.width = width
	i.height = height
	if i.renderer == nil || i.renderer.Width() != width-6 {
		if r, err := markdown.NewRenderer(width - 6); err == nil {
			i.renderer = r
		}
	}
}

// Focus fetches the report when the tab gains focus.
func (i *Insights) Focus() tea.Cmd {
	return i.Refresh()
}

// Refresh fetches the report for the current window.
func (i *Insights) Refresh() tea.Cmd {
	if i.loading || i.client == nil {
		return nil
	}
	i.loading = true
	i.err = nil
	client := i.client
	window := i.window

	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		report, err := client.Insights(ctx, window)
		if err != nil {
			return FetchErrorMsg{Screen: "insights", Err: err}
		}
		return InsightsLoadedMsg{Report: report, Window: window}
	}
	return tea.Batch(i.spinner.Start(), fetch)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles insights screen messages.
func (i *Insights) Update(msg tea.Msg) (*Insights, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return i, i.Refresh()
		case "w":
			i.window = nextWindow(i.window)
			return i, i.Refresh()
		case "1", "2", "3":
			idx := int(msg.String()[0] - '1')
			if i.window != insightWindows[idx] {
				i.window = insightWindows[idx]
				return i, i.Refresh()
			}
		}

	case InsightsLoadedMsg:
		// A stale window's response can land after a toggle; ignore it.
		if msg.Window != i.window {
			return i, nil
		}
		i.loading = false
		i.spinner.Stop()
		i.report = msg.Report
		return i, nil

	case FetchErrorMsg:
		if msg.Screen == "insights" {
			i.loading = false
			i.spinner.Stop()
			i.err = msg.Err
		}
		return i, nil
	}

	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return i, cmd
}

// nextWindow cycles through the report ranges.
func nextWindow(current string) string {
	for idx, w := range insightWindows {
		if w == current {
			return insightWindows[(idx+1)%len(insightWindows)]
		}
	}
	return insightWindows[0]
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the insights screen.
func (i *Insights) View() string {
	var b strings.Builder
	b.WriteString(i.viewWindowTabs())
	b.WriteString("\n\n")

	switch {
	case i.loading && i.report == nil:
		b.WriteString(lipgloss.NewStyle().Padding(1).Render(i.spinner.View()))
	case i.err != nil && i.report == nil:
		b.WriteString(i.theme.ErrorBox.Width(i.width - 2).Render(
			styles.RenderError("Could not load insights") + "\n" +
				i.theme.ErrorMessage.Render(i.err.Error()) + "\n" +
				i.theme.ErrorSuggestion.Render("r to retry")))
	case i.report == nil:
		b.WriteString(i.theme.InsightSummary.Render("No report yet. Press r to refresh."))
	default:
		b.WriteString(i.viewReport())
	}

	return b.String()
}

func (i *Insights) viewWindowTabs() string {
	var tabs []string
	for idx, w := range insightWindows {
		label := fmt.Sprintf("%d: %s", idx+1, w)
		style := i.theme.TabInactive
		if w == i.window {
			style = i.theme.TabActive
		}
		tabs = append(tabs, style.Render(label))
	}
	return strings.Join(tabs, " ")
}

func (i *Insights) viewReport() string {
	rep := i.report

	var b strings.Builder
	if rep.Summary != "" {
		summary := rep.Summary
		if i.renderer != nil {
			summary = i.renderer.RenderComplete(summary)
		}
		b.WriteString(i.theme.InsightSummary.Render(strings.TrimRight(summary, "\n")))
		b.WriteString("\n\n")
	}

	if len(rep.Metrics) > 0 {
		b.WriteString(i.viewMetrics(rep.Metrics))
		b.WriteString("\n")
	}

	if len(rep.MoodTrend) > 0 {
		b.WriteString(i.viewMoodTrend(rep.MoodTrend))
	}

	b.WriteString("\n")
	b.WriteString(i.theme.ChartAxis.Render(
		"generated " + rep.GeneratedAt.Format("Jan 2, 3:04 PM")))
	b.WriteString("\n")
	b.WriteString(i.theme.SettingHint.Render("w window | r refresh"))
	return b.String()
}

func (i *Insights) viewMetrics(metrics []model.BehaviorMetric) string {
	barWidth := minWidth(i.width-34, 30)
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	for _, metric := range metrics {
		trendStyle := i.theme.TrendFlat
		switch metric.TrendArrow() {
		case "+":
			trendStyle = i.theme.TrendUp
		case "-":
			trendStyle = i.theme.TrendDown
		}

		b.WriteString(fmt.Sprintf("%s %s %s %s\n",
			i.theme.MetricName.Width(16).Render(metric.Label),
			i.theme.ChartBar.Render(styles.RenderProgressBar(barWidth, metric.Score)),
			i.theme.MetricValue.Render(fmt.Sprintf("%3.0f%%", metric.Score*100)),
			trendStyle.Render(metric.TrendArrow())))
	}
	return b.String()
}

// viewMoodTrend renders the mood series as one bar row per sample.
func (i *Insights) viewMoodTrend(points []model.MoodPoint) string {
	barWidth := minWidth(i.width-34, 30)
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	b.WriteString(i.theme.MetricName.Render("Mood trend"))
	b.WriteString("\n")
	for _, pt := range points {
		moodStyle := lipgloss.NewStyle().Foreground(styles.MoodColor(pt.Mood))
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			i.theme.ChartAxis.Width(7).Render(pt.At.Format("Jan 2")),
			moodStyle.Render(styles.RenderProgressBar(barWidth, pt.Score)),
			moodStyle.Render(pt.Mood)))
	}
	return b.String()
}
