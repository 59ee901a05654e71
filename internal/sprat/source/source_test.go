package source

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestIsSupportedImageExtension(t *testing.T) {
	for _, p := range []string{"a.png", "A.PNG", "b.jpg", "c.webp", "d.tga"} {
		if !IsSupportedImageExtension(p) {
			t.Errorf("expected %q to be supported", p)
		}
	}
	for _, p := range []string{"readme.txt", "noext", "archive.tar.gz"} {
		if IsSupportedImageExtension(p) {
			t.Errorf("expected %q to be unsupported", p)
		}
	}
}

func TestIsTarArchiveName(t *testing.T) {
	for _, p := range []string{"a.tar", "a.tar.gz", "a.tgz", "a.tar.bz2", "a.tbz2", "a.tar.xz", "a.txz"} {
		if !isTarArchiveName(p) {
			t.Errorf("expected %q to be recognized as a tar archive name", p)
		}
	}
	if isTarArchiveName("plain.png") {
		t.Error("plain.png should not be a tar archive name")
	}
}

func TestResolveDirectorySkipsUnsupportedAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	set, err := Resolve(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.StrictDecode {
		t.Error("directory mode must not be strict-decode")
	}
	if len(set.Images) != 2 {
		t.Fatalf("got %d images, want 2 (readme.txt excluded)", len(set.Images))
	}
	if filepath.Base(set.Images[0].Path) != "a.png" || filepath.Base(set.Images[1].Path) != "b.png" {
		t.Errorf("expected sorted order a.png, b.png; got %s, %s",
			set.Images[0].Path, set.Images[1].Path)
	}
}

func TestResolveListFileIsStrictAndFatalOnMissingEntry(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "exists.png")
	if err := os.WriteFile(imgPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	listPath := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(listPath, []byte("# comment\nexists.png\nmissing.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Resolve(listPath); err == nil {
		t.Fatal("expected a missing list-file entry to be a fatal error")
	}
}

func TestResolveListFileSucceedsAndSetsStrictDecode(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "exists.png"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	listPath := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(listPath, []byte("exists.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	set, err := Resolve(listPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.StrictDecode {
		t.Error("list-file mode must be strict-decode")
	}
	if len(set.Images) != 1 {
		t.Fatalf("got %d images, want 1", len(set.Images))
	}
}

func TestResolveTarStreamExtractsAndSorts(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	files := map[string][]byte{"b.png": []byte("bb"), "a.png": []byte("a"), "skip.txt": []byte("z")}
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0o644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	set, err := resolveTarStream(&buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer set.Cleanup()
	if len(set.Images) != 2 {
		t.Fatalf("got %d images, want 2 (skip.txt excluded)", len(set.Images))
	}
	if set.Images[0].Path != "a.png" || set.Images[1].Path != "b.png" {
		t.Errorf("expected sorted a.png, b.png; got %s, %s", set.Images[0].Path, set.Images[1].Path)
	}
}

func TestResolveTarStreamGzipCompressed(t *testing.T) {
	var inner bytes.Buffer
	tw := tar.NewWriter(&inner)
	content := []byte("data")
	if err := tw.WriteHeader(&tar.Header{Name: "a.png", Mode: 0o644, Size: int64(len(content))}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	var gzBuf bytes.Buffer
	gw := gzip.NewWriter(&gzBuf)
	if _, err := gw.Write(inner.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := gw.Close(); err != nil {
		t.Fatal(err)
	}

	set, err := resolveTarStream(&gzBuf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer set.Cleanup()
	if len(set.Images) != 1 || set.Images[0].Path != "a.png" {
		t.Errorf("got %+v", set.Images)
	}
}

func TestDecompressingReaderRejectsXZ(t *testing.T) {
	xzMagic := []byte{0xFD, '7', 'z', 'X', 'Z', 0x00, 0x00, 0x00}
	if _, err := decompressingReader(bytes.NewReader(xzMagic)); err == nil {
		t.Error("expected xz-compressed streams to be rejected")
	}
}
