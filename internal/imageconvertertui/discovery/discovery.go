package discovery

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EnriqueKloosterman/image-converter/internal/imageconvertertui/domain"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/karrick/godirwalk"
)

// headerSize is enough bytes for filetype to recognise every image format.
const headerSize = 261

var avifType = types.NewType("avif", "image/avif")

func init() {
	// filetype knows HEIF but not AVIF
	filetype.AddMatcher(avifType, isAVIF)
}

// isAVIF looks for an ISO-BMFF ftyp box whose major or compatible brands
// name an AVIF image or sequence.
func isAVIF(buf []byte) bool {
	if len(buf) < 16 || !bytes.Equal(buf[4:8], []byte("ftyp")) {
		return false
	}
	size := int(binary.BigEndian.Uint32(buf[0:4]))
	if size < 16 || size > len(buf) {
		size = len(buf)
	}
	if isAVIFBrand(buf[8:12]) {
		return true
	}
	// bytes 12:16 hold the minor version
	for i := 16; i+4 <= size; i += 4 {
		if isAVIFBrand(buf[i : i+4]) {
			return true
		}
	}
	return false
}

func isAVIFBrand(b []byte) bool {
	return bytes.Equal(b, []byte("avif")) || bytes.Equal(b, []byte("avis"))
}

// SplitSources turns a comma-separated list typed by the user into trimmed,
// non-empty entries.
func SplitSources(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DiscoverImages expands sources into an ordered selection. A file source is
// taken as-is, in the order given, even when it does not look like an image.
// A directory source contributes the image files found under it (only its
// direct children when recursive is false), sorted by path. Duplicates are
// dropped.
func DiscoverImages(sources []string, recursive bool) ([]domain.ImageFile, error) {
	var images []domain.ImageFile
	seen := make(map[string]bool)

	add := func(path, kind string) {
		abs, err := filepath.Abs(path)
		if err == nil {
			path = abs
		}
		if seen[path] {
			return
		}
		seen[path] = true
		images = append(images, domain.ImageFile{
			Name:     filepath.Base(path),
			Path:     path,
			Kind:     kind,
			Selected: true,
			Status:   domain.StatusPending,
		})
	}

	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("invalid source %s: %w", src, err)
		}

		if !info.IsDir() {
			kind, _ := sniff(src)
			add(src, kind)
			continue
		}

		found, err := walkImages(src, recursive)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", src, err)
		}
		for _, f := range found {
			add(f.path, f.kind)
		}
	}

	return images, nil
}

type sniffed struct {
	path string
	kind string
}

func walkImages(root string, recursive bool) ([]sniffed, error) {
	var found []sniffed
	root = filepath.Clean(root)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if !recursive && path != root {
					return godirwalk.SkipThis
				}
				return nil
			}
			if !de.IsRegular() {
				return nil
			}
			if kind, ok := sniff(path); ok {
				found = append(found, sniffed{path: path, kind: kind})
			}
			return nil
		},
		ErrorCallback: func(string, error) godirwalk.ErrorAction {
			// Skip entries we can't access
			return godirwalk.SkipNode
		},
	})

	sort.Slice(found, func(i, j int) bool { return found[i].path < found[j].path })
	return found, err
}

// sniff reports the image subtype of the file at path from its header.
func sniff(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", false
	}
	header = header[:n]

	kind, err := filetype.Match(header)
	if err != nil || kind.MIME.Type != "image" {
		return "", false
	}
	return kind.MIME.Subtype, true
}
