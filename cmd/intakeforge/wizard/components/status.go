package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	saveErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Status is the information shown in the status bar.
type Status struct {
	Online    bool
	Event     string
	Date      string
	Company   string
	LastSaved time.Time
	SaveErr   error
}

// StatusBar renders a one-line status bar.
func StatusBar(s Status) string {
	parts := make([]string, 0, 4)

	if s.Online {
		parts = append(parts, onlineStyle.Render("● Online"))
	} else {
		parts = append(parts, offlineStyle.Render("● Offline"))
	}

	if s.Event != "" {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("%s | Date: %s", s.Event, s.Date)))
	}
	if s.Company != "" {
		parts = append(parts, statusStyle.Render(s.Company))
	}

	switch {
	case s.SaveErr != nil:
		parts = append(parts, saveErrStyle.Render("Not saved: "+s.SaveErr.Error()))
	case !s.LastSaved.IsZero():
		parts = append(parts, statusStyle.Render("Saved "+s.LastSaved.Local().Format(time.Kitchen)))
	}

	return strings.Join(parts, statusStyle.Render("  ·  "))
}
