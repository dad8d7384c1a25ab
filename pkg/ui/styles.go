package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. ANSI indices keep the output readable in any terminal theme.
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
	ColorDefault = lipgloss.AdaptiveColor{Light: "0", Dark: "7"}
)

var (
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style

	StyleTitle       lipgloss.Style
	StyleHeader      lipgloss.Style
	StyleBold        lipgloss.Style
	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style
)

var (
	IconSuccess = "✔"
	IconError   = "✘"
	IconRocket  = "🚀"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconEffect  = "✨"
	IconLink    = "↳"
	IconFolder  = "📁"
)

// typeColors groups asset types by family: systems, materials, textures, meshes
var typeColors = map[string]lipgloss.AdaptiveColor{
	"NiagaraSystem":            ColorPrimary,
	"NiagaraScript":            ColorPrimary,
	"Material":                 ColorWarning,
	"MaterialInstance":         ColorWarning,
	"MaterialInstanceConstant": ColorWarning,
	"MaterialFunction":         ColorWarning,
	"Texture":                  ColorInfo,
	"Texture2D":                ColorInfo,
	"StaticMesh":               ColorAccent,
	"SkeletalMesh":             ColorAccent,
	"VectorField":              ColorSuccess,
	"VectorFieldStatic":        ColorSuccess,
}

func init() {
	SetTheme("auto")
}

// SetTheme applies "auto", "dark" or "light" and rebuilds every style
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	StyleSuccess = fg(ColorSuccess).Bold(true)
	StyleError = fg(ColorError).Bold(true)
	StylePrimary = fg(ColorPrimary).Bold(true)
	StyleInfo = fg(ColorInfo)
	StyleMuted = fg(ColorMuted)
	StyleWarning = fg(ColorWarning).Bold(true)
	StyleAccent = fg(ColorAccent)

	StyleTitle = StylePrimary.Underline(true)
	StyleHeader = StylePrimary
	StyleBold = lipgloss.NewStyle().Bold(true)

	StyleTableHeader = StylePrimary
	StyleTableRow = fg(ColorDefault)
	StyleTableRowAlt = fg(ColorDefault).Faint(true)
	StyleTableBorder = StyleMuted
}

func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

func FormatInfo(msg string) string {
	return StyleInfo.Render(IconInfo + " " + msg)
}

func FormatWarning(msg string) string {
	return StyleWarning.Render(IconWarning + " " + msg)
}

// FormatRocket announces a long-running action
func FormatRocket(msg string) string {
	return StylePrimary.Render(IconRocket + " " + msg)
}

func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

// FormatCheck renders one line of a pass/fail checklist
func FormatCheck(ok bool, name string) string {
	if ok {
		return StyleSuccess.Render(IconSuccess) + " " + name
	}
	return StyleError.Render(IconError) + " " + name
}

// RenderType colours an asset type tag by its family; unknown tags stay plain
func RenderType(tag string) string {
	c, ok := typeColors[tag]
	if !ok {
		return tag
	}
	return lipgloss.NewStyle().Foreground(c).Render(tag)
}
