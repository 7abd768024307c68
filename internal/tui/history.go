package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowstate/internal/store"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
	historyMonthly
)

func (m historyMode) String() string {
	switch m {
	case historyWeekly:
		return "Weekly"
	case historyMonthly:
		return "Monthly"
	default:
		return "Daily"
	}
}

type historyModel struct {
	store  *store.Store
	width  int
	height int

	mode   historyMode
	days   []store.HistoryDay
	offset int // 7-day blocks back from today (daily mode only)

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		var days []store.HistoryDay
		var err error
		if h.mode == historyDaily {
			from, to := h.dateRange()
			days, err = h.store.History(from, to)
		} else {
			days, err = h.store.AllHistory()
		}
		if err != nil {
			days = nil
		}
		return historyDataMsg{days: days}
	}
}

func (h historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	end := today.AddDate(0, 0, 1-7*h.offset)
	return end.AddDate(0, 0, -7), end
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.days = msg.days
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			if h.mode == historyDaily {
				h.offset++
				return h, h.refresh()
			}
		case key.Matches(msg, keys.Right):
			if h.mode == historyDaily && h.offset > 0 {
				h.offset--
				return h, h.refresh()
			}
		case key.Matches(msg, keys.Mode), key.Matches(msg, keys.Tab):
			h.mode = (h.mode + 1) % 3
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

// buckets resolves the current rows to chart: one per day, week or month.
func (h historyModel) buckets() []store.HistoryBucket {
	switch h.mode {
	case historyWeekly:
		b := store.WeeklyBuckets(h.days)
		if len(b) > 12 {
			b = b[len(b)-12:]
		}
		return b
	case historyMonthly:
		b := store.MonthlyBuckets(h.days)
		if len(b) > 12 {
			b = b[len(b)-12:]
		}
		return b
	default:
		from, to := h.dateRange()
		byDate := make(map[string]store.HistoryDay, len(h.days))
		for _, d := range h.days {
			byDate[d.Date] = d
		}
		var out []store.HistoryBucket
		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			date := d.Format("2006-01-02")
			day := byDate[date]
			out = append(out, store.HistoryBucket{
				Label:                  d.Format("Mon 02"),
				Start:                  date,
				TotalPomodoros:         day.TotalPomodoros,
				TotalMinutes:           day.TotalMinutes,
				TotalBreakMinutes:      day.TotalBreakMinutes,
				TotalMeditationMinutes: day.TotalMeditationMinutes,
				TasksCompleted:         day.TasksCompleted,
			})
		}
		return out
	}
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if h.height > 30 {
		chartHeight = 16
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	focusStyle := lipgloss.NewStyle().Foreground(colorPrimary)
	breakStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	medStyle := lipgloss.NewStyle().Foreground(colorCalm)

	var bars []barchart.BarData
	for _, b := range h.buckets() {
		values := []barchart.BarValue{
			{Name: "focus", Value: float64(b.TotalMinutes) / 60.0, Style: focusStyle},
			{Name: "break", Value: float64(b.TotalBreakMinutes) / 60.0, Style: breakStyle},
			{Name: "meditation", Value: float64(b.TotalMeditationMinutes) / 60.0, Style: medStyle},
		}
		bars = append(bars, barchart.BarData{Label: b.Label, Values: values})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	var tabs []string
	for _, mode := range []historyMode{historyDaily, historyWeekly, historyMonthly} {
		if mode == h.mode {
			tabs = append(tabs, activeTabStyle.Render(mode.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(mode.String()))
		}
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", modeTabs, "  ", h.rangeLabel(),
	)

	legend := "  " + strings.Join([]string{
		lipgloss.NewStyle().Foreground(colorPrimary).Render("● focus"),
		lipgloss.NewStyle().Foreground(colorSuccess).Render("● break"),
		lipgloss.NewStyle().Foreground(colorCalm).Render("● meditation"),
	}, "  ")

	nav := mutedStyle.Render("  ←/→: navigate  m: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), "", legend, "", h.renderSummaryTable(w), "", nav,
		),
	)
}

func (h historyModel) rangeLabel() string {
	if h.mode != historyDaily {
		return mutedStyle.Render("all recorded history")
	}
	from, to := h.dateRange()
	return mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))
}

func (h historyModel) renderSummaryTable(w int) string {
	buckets := h.buckets()

	var nonzero []store.HistoryBucket
	for _, b := range buckets {
		if b.TotalPomodoros != 0 || b.TotalMinutes != 0 || b.TotalBreakMinutes != 0 ||
			b.TotalMeditationMinutes != 0 || b.TasksCompleted != 0 {
			nonzero = append(nonzero, b)
		}
	}
	if len(nonzero) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-10s %5s %8s %8s %10s %6s",
		"Period", "🍅", "Focus", "Breaks", "Meditation", "Tasks")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, b := range nonzero {
		rows = append(rows, fmt.Sprintf("  %-10s %5d %8s %8s %10s %6d",
			b.Label, b.TotalPomodoros,
			formatMinutes(b.TotalMinutes), formatMinutes(b.TotalBreakMinutes),
			formatMinutes(b.TotalMeditationMinutes), b.TasksCompleted,
		))
	}

	return strings.Join(rows, "\n")
}
