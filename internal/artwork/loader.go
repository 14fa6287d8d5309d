package artwork

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"  // cover decoders
	_ "image/jpeg" // cover decoders

	"github.com/dhowden/tag"
	"github.com/nfnt/resize"
)

// coverFileNames are directory cover candidates, checked in order, in
// common extensions.
var coverFileNames = []string{"cover", "folder", "front", "albumart"}

var coverFileExts = []string{".jpg", ".jpeg", ".png"}

var errNoCover = errors.New("no cover art found")

// LoadCover finds and renders the cover image for an album from the
// locations of its songs. Embedded tag art wins over directory cover files.
// The result is a size x size (bounded, aspect preserved) PNG.
func LoadCover(locations []string, size int) ([]byte, error) {
	for _, location := range locations {
		if location == "" || strings.Contains(location, "://") {
			continue
		}
		if data := embeddedCover(location); data != nil {
			if img, err := render(data, size); err == nil {
				return img, nil
			}
		}
		if data := directoryCover(filepath.Dir(location)); data != nil {
			if img, err := render(data, size); err == nil {
				return img, nil
			}
		}
	}
	return nil, errNoCover
}

func embeddedCover(location string) []byte {
	f, err := os.Open(location)
	if err != nil {
		return nil
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil
	}
	pic := meta.Picture()
	if pic == nil {
		return nil
	}
	return pic.Data
}

func directoryCover(dir string) []byte {
	for _, name := range coverFileNames {
		for _, ext := range coverFileExts {
			data, err := os.ReadFile(filepath.Join(dir, name+ext))
			if err == nil {
				return data
			}
		}
	}
	return nil
}

func render(data []byte, size int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	thumb := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
