package track

import "testing"

func TestNewColorMap(t *testing.T) {
	m := NewColorMap([]Course{
		{Name: "Math", Color: "#E53935"},
		{Name: "Art", Color: "not-a-color"},
		{Name: "Bio"},
	})

	tests := []struct {
		name     string
		courseID string
		want     string
	}{
		{name: "valid hex kept", courseID: "Math", want: "#E53935"},
		{name: "invalid hex falls back", courseID: "Art", want: NeutralColor},
		{name: "empty falls back", courseID: "Bio", want: NeutralColor},
		{name: "unknown course falls back", courseID: "Chem", want: NeutralColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Get(tt.courseID); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.courseID, got, tt.want)
			}
		})
	}
}

func TestPickColor(t *testing.T) {
	if got := PickColor(0); got != Palette[0] {
		t.Errorf("PickColor(0) = %q, want %q", got, Palette[0])
	}
	// wraps around the palette
	if got := PickColor(len(Palette) + 2); got != Palette[2] {
		t.Errorf("PickColor(len+2) = %q, want %q", got, Palette[2])
	}
}
