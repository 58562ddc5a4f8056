package platform

import (
	"testing"

	"github.com/1broseidon/sidedock/internal/geometry"
)

func TestDisplayForRect(t *testing.T) {
	left := Display{ID: 0, Bounds: geometry.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}}
	right := Display{ID: 1, Bounds: geometry.Rect{X: 1920, Y: 0, Width: 2560, Height: 1440}}
	displays := []Display{left, right}

	tests := []struct {
		name string
		rect geometry.Rect
		want int
	}{
		{"inside left", geometry.Rect{X: 100, Y: 100, Width: 800, Height: 600}, 0},
		{"inside right", geometry.Rect{X: 2000, Y: 100, Width: 800, Height: 600}, 1},
		{"straddling uses center", geometry.Rect{X: 1500, Y: 100, Width: 1000, Height: 600}, 1},
		{"offscreen picks nearest", geometry.Rect{X: -3000, Y: 0, Width: 800, Height: 600}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DisplayForRect(displays, tt.rect)
			if !ok {
				t.Fatalf("DisplayForRect returned no display")
			}
			if got.ID != tt.want {
				t.Fatalf("display = %d, want %d", got.ID, tt.want)
			}
		})
	}
}

func TestDisplayForRect_Empty(t *testing.T) {
	if _, ok := DisplayForRect(nil, geometry.Rect{Width: 10, Height: 10}); ok {
		t.Fatalf("expected no display for empty list")
	}
}
