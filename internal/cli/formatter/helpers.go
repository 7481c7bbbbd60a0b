package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(1).
		PaddingRight(1)

	if title != "" {
		titleRendered := StyleHeader.Render(title)
		return boxStyle.Render(titleRendered + "\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDate returns how long ago t was.
func RelativeDate(t time.Time) string {
	return RelativeDateFrom(t, time.Now())
}

// RelativeDateFrom returns how long before now t was. Future times collapse
// to "Just now".
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	}

	days := int(math.Round(diff.Hours() / 24))
	switch {
	case days == 1:
		return "Yesterday"
	case days < 14:
		return fmt.Sprintf("%dd ago", days)
	case days < 60:
		return fmt.Sprintf("%dw ago", days/7)
	default:
		return fmt.Sprintf("%dmo ago", days/30)
	}
}

// Confidence renders c with two decimals.
func Confidence(c float64) string {
	return fmt.Sprintf("%.2f", c)
}

// TruncID shortens an audit or plan id to its prefix plus eight characters.
func TruncID(id string) string {
	prefix := ""
	if i := strings.IndexByte(id, '_'); i >= 0 {
		prefix, id = id[:i+1], id[i+1:]
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return prefix + id
}

// YesNo renders a flag for table cells.
func YesNo(b bool) string {
	if b {
		return StyleYellow.Render("yes")
	}
	return StyleDim.Render("no")
}

// Bullets renders one indented "- item" line per entry.
func Bullets(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("  - ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}
