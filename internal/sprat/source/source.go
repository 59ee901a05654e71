// Package source enumerates the image set a spratlayout invocation packs:
// a directory, a list file, a tar (optionally gzip/bzip2-compressed)
// archive, or a tar stream on stdin (spec §6).
package source

import (
	"archive/tar"
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pedroac/sprat/internal/sprat/spraterr"
)

// Image is one input's path plus the change-fingerprint spec §3 defines:
// byte size and last-modified timestamp, participating in cache and
// layout signatures.
type Image struct {
	// Path is the stable identifier recorded in the layout output: the
	// path as given relative to the invocation (directory entries get
	// path.Join(dir, name); list-file entries keep the line as written).
	Path string
	// AbsPath is where to actually read bytes from, which may differ from
	// Path for list-file or tar-extracted sources.
	AbsPath      string
	Size         int64
	ModTimeTicks int64
}

var supportedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tga": true,
	".gif": true, ".psd": true, ".pic": true, ".pnm": true, ".pgm": true,
	".ppm": true, ".hdr": true, ".webp": true,
}

// IsSupportedImageExtension reports whether path's extension is one of the
// thirteen spec §6 names, case-insensitively.
func IsSupportedImageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && supportedExtensions[ext]
}

// Set is a resolved, read-only list of sources plus a cleanup function for
// any temporary extraction directory (tar/stdin inputs).
type Set struct {
	Images []Image
	// StrictDecode is true only for list-file input: a later decode
	// failure for one of these images is fatal there, but merely skipped
	// with a warning for directory/tar input (spec §4.2/§7).
	StrictDecode bool
	Cleanup      func()
}

// fingerprint stats path and returns an Image with its size/mtime filled.
func fingerprint(displayPath, absPath string) (Image, error) {
	fi, err := os.Stat(absPath)
	if err != nil {
		return Image{}, spraterr.New(spraterr.InvalidInput, "cannot stat %q: %v", absPath, err)
	}
	return Image{
		Path:         displayPath,
		AbsPath:      absPath,
		Size:         fi.Size(),
		ModTimeTicks: fi.ModTime().UnixNano(),
	}, nil
}

// Resolve dispatches on the CLI's positional argument: "-" means a tar
// stream on stdin, a directory is scanned non-recursively for supported
// extensions, a name ending in one of the tar suffixes is extracted, and
// anything else is treated as a list file (one path per line).
func Resolve(arg string) (Set, error) {
	if arg == "-" {
		return resolveTarStream(os.Stdin)
	}

	info, err := os.Stat(arg)
	if err != nil {
		return Set{}, spraterr.New(spraterr.InvalidInput, "cannot open %q: %v", arg, err)
	}

	if info.IsDir() {
		return resolveDirectory(arg)
	}
	if isTarArchiveName(arg) {
		f, err := os.Open(arg)
		if err != nil {
			return Set{}, spraterr.New(spraterr.InvalidInput, "cannot open tar %q: %v", arg, err)
		}
		defer f.Close()
		return resolveTarStream(f)
	}
	return resolveListFile(arg)
}

func resolveDirectory(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Set{}, spraterr.New(spraterr.InvalidInput, "cannot read directory %q: %v", dir, err)
	}
	var images []Image
	for _, e := range entries {
		if e.IsDir() || !IsSupportedImageExtension(e.Name()) {
			continue
		}
		abs := filepath.Join(dir, e.Name())
		img, err := fingerprint(abs, abs)
		if err != nil {
			// Directory mode: a single unreadable file is skipped, not fatal.
			continue
		}
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })
	return Set{Images: images, Cleanup: func() {}}, nil
}

// resolveListFile reads one path per line (comments '#', blanks allowed),
// relative paths resolved against the list file's parent (spec §6). A
// single unreadable entry is fatal in this mode.
func resolveListFile(listPath string) (Set, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return Set{}, spraterr.New(spraterr.InvalidInput, "cannot open list file %q: %v", listPath, err)
	}
	defer f.Close()

	baseDir := filepath.Dir(listPath)
	var images []Image
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p := line
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		img, err := fingerprint(line, p)
		if err != nil {
			return Set{}, spraterr.New(spraterr.ImageDecode, "list file entry %q: %v", line, err)
		}
		images = append(images, img)
	}
	if err := scanner.Err(); err != nil {
		return Set{}, spraterr.New(spraterr.InvalidInput, "reading list file %q: %v", listPath, err)
	}
	return Set{Images: images, StrictDecode: true, Cleanup: func() {}}, nil
}

func isTarArchiveName(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range []string{".tar", ".tar.gz", ".tgz", ".tar.bz2", ".tbz2", ".tar.xz", ".txz"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func resolveTarStream(r io.Reader) (Set, error) {
	tmpDir, err := os.MkdirTemp("", "sprat-extract-")
	if err != nil {
		return Set{}, spraterr.New(spraterr.InvalidInput, "cannot create extraction dir: %v", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	reader, err := decompressingReader(r)
	if err != nil {
		cleanup()
		return Set{}, err
	}

	tr := tar.NewReader(reader)
	var images []Image
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			cleanup()
			return Set{}, spraterr.New(spraterr.InvalidInput, "broken tar stream: %v", err)
		}
		if hdr.Typeflag != tar.TypeReg || !IsSupportedImageExtension(hdr.Name) {
			continue
		}
		dest := filepath.Join(tmpDir, filepath.Base(hdr.Name))
		out, err := os.Create(dest)
		if err != nil {
			cleanup()
			return Set{}, spraterr.New(spraterr.InvalidInput, "extracting %q: %v", hdr.Name, err)
		}
		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			cleanup()
			return Set{}, spraterr.New(spraterr.InvalidInput, "extracting %q: %v", hdr.Name, err)
		}
		out.Close()
		img, err := fingerprint(hdr.Name, dest)
		if err != nil {
			cleanup()
			return Set{}, err
		}
		images = append(images, img)
	}
	sort.Slice(images, func(i, j int) bool { return images[i].Path < images[j].Path })
	return Set{Images: images, Cleanup: cleanup}, nil
}

func decompressingReader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, spraterr.New(spraterr.InvalidInput, "reading tar stream header: %v", err)
	}
	switch {
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, spraterr.New(spraterr.InvalidInput, "invalid gzip stream: %v", err)
		}
		return gz, nil
	case len(magic) >= 3 && magic[0] == 'B' && magic[1] == 'Z' && magic[2] == 'h':
		return bzip2.NewReader(br), nil
	case len(magic) >= 6 && magic[0] == 0xFD && string(magic[1:6]) == "7zXZ\x00":
		return nil, spraterr.New(spraterr.InvalidInput, "xz-compressed tar streams are not supported by this build")
	default:
		return br, nil
	}
}
