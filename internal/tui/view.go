package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roof_vent/internal/notify"
	"roof_vent/internal/render"
)

const (
	maxTableRows = 8
	chartWidth   = 48
)

func (m Model) View() string {
	w := m.deps.Engine.Reconciler().Registry().Snapshot()
	s := m.styles

	sections := []string{m.header(w)}
	if row := m.badgeRow(w); row != "" {
		sections = append(sections, row)
	}
	if row := m.valueRow(w); row != "" {
		sections = append(sections, row)
	}
	if p, ok := w[render.AlertBox].(*render.Panel); ok && p.Visible {
		sections = append(sections, s.alert.Render(strings.Join(p.Lines, "\n")))
	}
	if p, ok := w[render.SysNotice].(*render.Panel); ok && p.Visible {
		sections = append(sections, s.notice.Render(strings.Join(p.Lines, " ")))
	}
	if charts := m.charts(w); charts != "" {
		sections = append(sections, s.panel.Render(charts))
	}
	if t, ok := w[render.SensorTable].(*render.Table); ok {
		body := m.table(t)
		if lu, ok := w[render.LastUpdate].(*render.TextField); ok {
			body += "\n" + s.muted.Render("Last update: "+lu.Text)
		}
		sections = append(sections, s.panel.Render(s.title.Render("Sensor readings")+"\n"+body))
	}
	if t, ok := w[render.LogTable].(*render.Table); ok {
		sections = append(sections, s.panel.Render(s.title.Render("Control log")+"\n"+m.table(t)))
	}
	if row := m.modeRow(w); row != "" {
		sections = append(sections, row)
	}
	if m.toast != nil {
		sections = append(sections, m.renderToast(*m.toast))
	}
	if m.status != "" {
		sections = append(sections, s.tone(render.ToneDanger).Render(m.status))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header(w map[render.ID]render.Widget) string {
	title := "Roof Vent"
	if m.deps.Page != "" && m.deps.Page != render.PageAll {
		title += " · " + m.deps.Page
	}
	line := m.styles.header.Render(title)
	if u, ok := w[render.UserName].(*render.TextField); ok {
		line += m.styles.muted.Render("signed in as ") + m.styles.tone(u.Tone).Render(u.Text)
	}
	return line
}

func (m Model) badgeRow(w map[render.ID]render.Widget) string {
	var parts []string
	for _, id := range []render.ID{render.VentBadge, render.RainBadge, render.SmokeBadge} {
		if b, ok := w[id].(*render.Badge); ok {
			parts = append(parts, m.styles.tone(b.Tone).Render("["+b.Text+"]"))
		}
	}
	for _, id := range []render.ID{render.RainToggle, render.SmokeToggle} {
		if t, ok := w[id].(*render.Toggle); ok {
			box := "[ ]"
			if t.Checked {
				box = "[x]"
			}
			label := "sim rain"
			if id == render.SmokeToggle {
				label = "sim smoke"
			}
			parts = append(parts, m.styles.muted.Render(box+" "+label))
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) valueRow(w map[render.ID]render.Widget) string {
	var parts []string
	if t, ok := w[render.TempValue].(*render.TextField); ok {
		parts = append(parts, "Temp "+m.styles.value.Render(t.Text)+" °C")
	}
	if h, ok := w[render.HumValue].(*render.TextField); ok {
		parts = append(parts, "Humidity "+m.styles.value.Render(h.Text)+" %")
	}
	return strings.Join(parts, "   ")
}

func (m Model) charts(w map[render.ID]render.Widget) string {
	var lines []string
	for _, c := range []struct {
		id    render.ID
		title string
	}{
		{render.TempChart, "Temperature"},
		{render.HumChart, "Humidity"},
		{render.RainChart, "Rain"},
		{render.SmokeChart, "Smoke"},
	} {
		chart, ok := w[c.id].(*render.LineChart)
		if !ok {
			continue
		}
		last := render.Placeholder
		if n := len(chart.Labels); n > 0 {
			last = chart.Labels[n-1]
		}
		lines = append(lines, fmt.Sprintf("%-12s %s %s", c.title, m.styles.primary.Render(sparkline(chart, chartWidth)), m.styles.muted.Render(last)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) table(t *render.Table) string {
	if len(t.Rows) == 0 {
		return m.styles.muted.Render(t.Empty)
	}
	cell := lipgloss.NewStyle().Width(22)
	var b strings.Builder
	for _, c := range t.Columns {
		b.WriteString(cell.Inherit(m.styles.title).Render(c))
	}
	rows := t.Rows
	if len(rows) > maxTableRows {
		rows = rows[:maxTableRows]
	}
	for _, r := range rows {
		b.WriteString("\n")
		for _, c := range r.Cells {
			if r.Emphasis {
				b.WriteString(cell.Inherit(m.styles.emph).Render(c))
			} else {
				b.WriteString(cell.Render(c))
			}
		}
	}
	return b.String()
}

func (m Model) modeRow(w map[render.ID]render.Widget) string {
	var parts []string
	if b, ok := w[render.ModeBadge].(*render.Badge); ok {
		parts = append(parts, m.styles.tone(b.Tone).Render(b.Text))
		if m.deps.Scheduler != nil {
			parts = append(parts, m.styles.muted.Render("every "+m.deps.Scheduler.Interval().String()))
		}
	}
	if msg, ok := w[render.WeatherMsg].(*render.TextField); ok && msg.Text != "" && msg.Text != render.Placeholder {
		parts = append(parts, m.styles.tone(msg.Tone).Render(msg.Text))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderToast(t notify.Toast) string {
	if t.Severity == notify.Hazard {
		return m.styles.hazard.Render(t.Message)
	}
	return m.styles.toast.Render(t.Message)
}
