package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stridehq/stride/internal/store"
)

type calendarModel struct {
	store  *store.Store
	width  int
	height int

	offset int // months back from the current month (0 = current)

	// check-ins per day for the visible month, keyed by "2006-01-02"
	counts map[string]int
	trend  []dayCount // last 14 days, oldest first

	chart barchart.Model
}

type dayCount struct {
	day   time.Time
	count int
}

func newCalendarModel(s *store.Store) calendarModel {
	return calendarModel{
		store:  s,
		counts: map[string]int{},
		chart:  barchart.New(60, 8),
	}
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

type calendarDataMsg struct {
	counts map[string]int
	trend  []dayCount
}

// monthStart returns local midnight of the first day of the visible month.
func (c calendarModel) monthStart() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -c.offset, 0)
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		times, err := c.store.CompletionTimes(nil)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		loc := time.Now().Location()
		counts := map[string]int{}
		for _, t := range times {
			counts[t.In(loc).Format("2006-01-02")]++
		}

		today := time.Now().In(loc)
		midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
		trend := make([]dayCount, 0, 14)
		for i := 13; i >= 0; i-- {
			d := midnight.AddDate(0, 0, -i)
			trend = append(trend, dayCount{day: d, count: counts[d.Format("2006-01-02")]})
		}

		return calendarDataMsg{counts: counts, trend: trend}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	switch msg := msg.(type) {
	case calendarDataMsg:
		c.counts = msg.counts
		c.trend = msg.trend
		c.buildChart()
		return c, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			c.offset++
			return c, c.refresh()
		case key.Matches(msg, keys.Right):
			if c.offset > 0 {
				c.offset--
			}
			return c, c.refresh()
		}
	}
	return c, nil
}

func (c *calendarModel) buildChart() {
	chartWidth := c.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 8
	if c.height > 32 {
		chartHeight = 10
	}

	c.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, d := range c.trend {
		style := lipgloss.NewStyle().Foreground(colorSuccess)
		if d.count == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: d.day.Format("02"),
			Values: []barchart.BarValue{
				{Name: "check-ins", Value: float64(d.count), Style: style},
			},
		})
	}

	c.chart.PushAll(bars)
	c.chart.Draw()
}

func (c calendarModel) view() string {
	w := c.width - 4

	start := c.monthStart()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Calendar"), "  ",
		mutedStyle.Render(start.Format("January 2006")),
	)

	grid := c.renderMonthGrid(start)

	trendTitle := titleStyle.Render("Last 14 Days")
	chartView := c.chart.View()

	nav := mutedStyle.Render("  ←/→: change month")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", grid, "", trendTitle, chartView, nav,
		),
	)
}

func (c calendarModel) renderMonthGrid(start time.Time) string {
	loc := start.Location()
	now := time.Now().In(loc)
	todayStr := now.Format("2006-01-02")

	var rows []string
	rows = append(rows, mutedStyle.Render("  Mo  Tu  We  Th  Fr  Sa  Su"))

	// Monday-first weekday column for day 1
	weekday := int(start.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	col := weekday - 1

	line := strings.Repeat("    ", col)
	daysInMonth := start.AddDate(0, 1, -1).Day()

	for day := 1; day <= daysInMonth; day++ {
		d := start.AddDate(0, 0, day-1)
		dateStr := d.Format("2006-01-02")

		cell := fmt.Sprintf("%3d", day)
		switch {
		case dateStr == todayStr:
			cell = calDayTodayStyle.Render(cell)
		case c.counts[dateStr] > 0:
			cell = calDayDoneStyle.Render(cell)
		case d.After(now):
			cell = calDayMutedStyle.Render(cell)
		default:
			cell = calDayStyle.Render(cell)
		}
		line += cell + " "

		col++
		if col == 7 {
			rows = append(rows, line)
			line = ""
			col = 0
		}
	}
	if line != "" {
		rows = append(rows, line)
	}

	active := 0
	for day := 1; day <= daysInMonth; day++ {
		if c.counts[start.AddDate(0, 0, day-1).Format("2006-01-02")] > 0 {
			active++
		}
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s active this month", plural(active, "day"))))

	return strings.Join(rows, "\n")
}
