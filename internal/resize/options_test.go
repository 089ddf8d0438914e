package resize

import (
	"errors"
	"testing"
)

func TestOptionsMode(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Mode
	}{
		{"max wins", Options{MaxDim: 100, MinDim: 50}, ModeMaxDimension},
		{"percent and min", Options{Percent: 0.5, MinDim: 50}, ModePercentWithFloor},
		{"percent", Options{Percent: 0.3}, ModePercent},
		{"min", Options{MinDim: 50}, ModeMinDimension},
		{"default", Options{}, ModePercent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.Mode(); got != tt.want {
				t.Errorf("Mode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"percent with max", Options{Percent: 0.5, MaxDim: 100}, ErrPercentWithMaxDim},
		{"percent above one", Options{Percent: 1.5}, ErrInvalidPercent},
		{"negative percent", Options{Percent: -0.1}, ErrInvalidPercent},
		{"negative min", Options{MinDim: -1}, ErrInvalidDimension},
		{"negative max", Options{MaxDim: -1}, ErrInvalidDimension},
		{"ok", Options{Percent: 0.5, MinDim: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDefaultPercentApplied(t *testing.T) {
	got, err := Options{}.Target(Geometry{200, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Geometry{100, 50}) {
		t.Fatalf("expected default half size, got %s", got)
	}

	got, err = Options{Default: 0.25}.Target(Geometry{200, 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (Geometry{50, 25}) {
		t.Fatalf("expected configured default, got %s", got)
	}
}
