package components

import (
	"strings"
	"testing"
)

func TestHelpPanel_UnknownFieldRendersNothing(t *testing.T) {
	h := NewHelpPanel()
	h.SetField("no_such_field")
	if got := h.View(); got != "" {
		t.Errorf("Expected no panel, got %q", got)
	}
}

func TestHelpPanel_PacketBadge(t *testing.T) {
	h := NewHelpPanel()

	h.SetField("last_name")
	if !strings.Contains(h.View(), "needed to print") {
		t.Error("Expected the packet badge on last name")
	}

	h.SetField("dob")
	if strings.Contains(h.View(), "needed to print") {
		t.Error("Expected no packet badge on an optional field")
	}
}

func TestHelpPanel_Note(t *testing.T) {
	h := NewHelpPanel()
	h.SetWidth(80)
	h.SetField("dob")
	h.SetNote("Age 30")
	if !strings.Contains(h.View(), "Age 30") {
		t.Error("Expected the live note in the panel")
	}

	h.SetNote("")
	if strings.Contains(h.View(), "→") {
		t.Error("Expected the note to be cleared")
	}
}
