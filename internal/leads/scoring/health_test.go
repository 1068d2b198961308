package scoring

import "testing"

func TestHealthLabel(t *testing.T) {
	cfg := DefaultHealthConfig()

	tests := []struct {
		score int
		want  string
	}{
		{100, HealthHot},
		{70, HealthHot},
		{69, HealthWarm},
		{40, HealthWarm},
		{39, HealthCold},
		{0, HealthCold},
	}

	for _, tt := range tests {
		if got := cfg.Label(tt.score); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestHealthLabelCustomCutPoints(t *testing.T) {
	cfg := HealthConfig{HotMin: 80, WarmMin: 50}

	if got := cfg.Label(75); got != HealthWarm {
		t.Errorf("Label(75) = %q, want %q with raised cut-points", got, HealthWarm)
	}
	if got := cfg.Label(49); got != HealthCold {
		t.Errorf("Label(49) = %q, want %q", got, HealthCold)
	}
}
