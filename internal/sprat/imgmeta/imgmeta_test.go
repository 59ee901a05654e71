package imgmeta

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDimensionsOnly(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	path := writePNG(t, img)

	m, err := Read(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Width != 12 || m.Height != 8 {
		t.Errorf("got %dx%d, want 12x8", m.Width, m.Height)
	}
	if m.TrimLeft != 0 || m.TrimTop != 0 || m.TrimRight != 0 || m.TrimBottom != 0 {
		t.Error("trim offsets must stay zero when trim is not requested")
	}
}

func TestReadTrimsOpaqueBoundingBox(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	// Fully transparent canvas except a 2x2 opaque block at (3,4)-(4,5).
	for y := 4; y <= 5; y++ {
		for x := 3; x <= 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, A: 255})
		}
	}
	path := writePNG(t, img)

	m, err := Read(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Width != 2 || m.Height != 2 {
		t.Errorf("got %dx%d, want 2x2", m.Width, m.Height)
	}
	if m.TrimLeft != 3 || m.TrimTop != 4 || m.TrimRight != 5 || m.TrimBottom != 4 {
		t.Errorf("got trim (%d,%d,%d,%d), want (3,4,5,4)",
			m.TrimLeft, m.TrimTop, m.TrimRight, m.TrimBottom)
	}
}

func TestReadTrimFullyOpaqueKeepsFullSize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 1, A: 255})
		}
	}
	path := writePNG(t, img)

	m, err := Read(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Width != 6 || m.Height != 4 {
		t.Errorf("got %dx%d, want 6x4", m.Width, m.Height)
	}
	if m.TrimLeft != 0 || m.TrimTop != 0 || m.TrimRight != 0 || m.TrimBottom != 0 {
		t.Errorf("expected zero trim offsets for a fully opaque image, got (%d,%d,%d,%d)",
			m.TrimLeft, m.TrimTop, m.TrimRight, m.TrimBottom)
	}
}

func TestReadTrimFullyTransparentDegradesToOnePixel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 5))
	path := writePNG(t, img)

	m, err := Read(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Width != 1 || m.Height != 1 {
		t.Errorf("got %dx%d, want 1x1 for a fully transparent image", m.Width, m.Height)
	}
	if m.TrimRight != 7 || m.TrimBottom != 4 {
		t.Errorf("got trim right/bottom (%d,%d), want (7,4)", m.TrimRight, m.TrimBottom)
	}
}

func TestReadRejectsUnreadableFile(t *testing.T) {
	if _, err := Read(filepath.Join(t.TempDir(), "missing.png"), false); err == nil {
		t.Error("expected an error for a nonexistent file")
	}
}

func TestReadRejectsUndecodableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path, false); err == nil {
		t.Error("expected an error for an undecodable file")
	}
}
