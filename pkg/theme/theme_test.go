package theme

import "testing"

func TestParse(t *testing.T) {
	tests := map[string]Name{"light": Light, "DARK": Dark, " dark ": Dark}
	for in, want := range tests {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("Expected %s, got %s", want, got)
		}
	}
	if _, err := Parse("sepia"); err == nil {
		t.Error("Expected error for unknown theme")
	}
}

func TestToggle(t *testing.T) {
	if Light.Toggle() != Dark {
		t.Errorf("Expected light to toggle to dark")
	}
	if Dark.Toggle() != Light {
		t.Errorf("Expected dark to toggle to light")
	}
	if !Dark.Palette().IsDark || Light.Palette().IsDark {
		t.Errorf("Palette IsDark does not match theme")
	}
}
