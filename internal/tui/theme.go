package tui

import (
	"github.com/charmbracelet/lipgloss"

	"roof_vent/internal/render"
)

type palette struct {
	accent lipgloss.Color
	border lipgloss.Color
	panel  lipgloss.Color
}

var palettes = map[string]palette{
	"indigo":  {accent: "#6366F1", border: "#4F46E5", panel: "#0F1024"},
	"teal":    {accent: "#14B8A6", border: "#0F766E", panel: "#071A19"},
	"emerald": {accent: "#10B981", border: "#047857", panel: "#061A12"},
	"slate":   {accent: "#94A3B8", border: "#475569", panel: "#0F172A"},
	"night":   {accent: "#A78BFA", border: "#6D28D9", panel: "#05050A"},
}

var (
	successColor   = lipgloss.Color("#22C55E")
	dangerColor    = lipgloss.Color("#EF4444")
	warnColor      = lipgloss.Color("#F59E0B")
	mutedColor     = lipgloss.Color("#94A3B8")
	secondaryColor = lipgloss.Color("#64748B")
)

type styles struct {
	header  lipgloss.Style
	title   lipgloss.Style
	panel   lipgloss.Style
	alert   lipgloss.Style
	notice  lipgloss.Style
	muted   lipgloss.Style
	emph    lipgloss.Style
	toast   lipgloss.Style
	hazard  lipgloss.Style
	value   lipgloss.Style
	primary lipgloss.Style
}

func newStyles(theme string) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes["indigo"]
	}
	return styles{
		header:  lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1),
		title:   lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.border).Background(p.panel).Padding(0, 1),
		alert:   lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(warnColor).Foreground(warnColor).Padding(0, 1),
		notice:  lipgloss.NewStyle().Foreground(dangerColor).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(mutedColor),
		emph:    lipgloss.NewStyle().Bold(true).Foreground(warnColor),
		toast:   lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(p.border),
		hazard:  lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(dangerColor),
		value:   lipgloss.NewStyle().Bold(true),
		primary: lipgloss.NewStyle().Bold(true).Foreground(p.accent),
	}
}

func (s styles) tone(t render.Tone) lipgloss.Style {
	switch t {
	case render.ToneSuccess:
		return lipgloss.NewStyle().Bold(true).Foreground(successColor)
	case render.ToneDanger:
		return lipgloss.NewStyle().Bold(true).Foreground(dangerColor)
	case render.ToneSecondary:
		return lipgloss.NewStyle().Foreground(secondaryColor)
	case render.ToneMuted:
		return s.muted
	case render.TonePrimary:
		return s.primary
	}
	return lipgloss.NewStyle()
}
