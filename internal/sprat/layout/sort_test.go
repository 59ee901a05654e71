package layout

import (
	"testing"

	"github.com/pedroac/sprat/internal/sprat/sprite"
)

func TestSortedByHeightDescending(t *testing.T) {
	in := []sprite.Sprite{
		{Path: "a", Width: 5, Height: 10},
		{Path: "b", Width: 5, Height: 30},
		{Path: "c", Width: 5, Height: 20},
	}
	out := Sorted(in, SortByHeight)
	want := []string{"b", "c", "a"}
	for i, p := range want {
		if out[i].Path != p {
			t.Errorf("position %d: got %q, want %q", i, out[i].Path, p)
		}
	}
}

func TestSortedDoesNotMutateInput(t *testing.T) {
	in := []sprite.Sprite{{Path: "a", Width: 1, Height: 1}, {Path: "b", Width: 2, Height: 2}}
	_ = Sorted(in, SortByArea)
	if in[0].Path != "a" || in[1].Path != "b" {
		t.Error("Sorted must not mutate its input slice order")
	}
}

func TestSortedByAreaTieBreaksOnHeight(t *testing.T) {
	in := []sprite.Sprite{
		{Path: "wide", Width: 20, Height: 5},  // area 100
		{Path: "tall", Width: 5, Height: 20},  // area 100
	}
	out := Sorted(in, SortByArea)
	if out[0].Path != "tall" {
		t.Errorf("expected taller sprite first on area tie, got %q", out[0].Path)
	}
}
