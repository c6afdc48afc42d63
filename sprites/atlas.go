// Package sprites builds the name to sprite lookup the renderer draws from.
// Atlas metadata comes from libGDX-style texture atlas descriptions.
package sprites

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pthm-cable/fruitfall/components"
)

//go:embed sprites.atlas
var defaultAtlas []byte

//go:embed sprites.png
var defaultPage []byte

// Page is one texture image of an atlas.
type Page struct {
	Name          string // image file name, relative to the atlas
	Width, Height int
}

// Region is one named image inside an atlas page, in pixels. Y grows down
// from the top-left of the page, as in the image file.
type Region struct {
	Name components.VisualName
	Page string

	X, Y          int // packed position
	Width, Height int // packed size
	OrigWidth     int // size before whitespace stripping
	OrigHeight    int
	OffsetX       int // packed image offset from the original's bottom-left
	OffsetY       int
	Index         int
}

// RawSize returns the region's original size in pixels.
func (r Region) RawSize() (w, h int) {
	w, h = r.OrigWidth, r.OrigHeight
	if w == 0 || h == 0 {
		w, h = r.Width, r.Height
	}
	return w, h
}

// Atlas is parsed atlas metadata. Images are not loaded here.
type Atlas struct {
	Pages   []Page
	regions []Region
}

// Regions returns the atlas regions in file order.
func (a *Atlas) Regions() []Region {
	return a.regions
}

// DefaultAtlas returns the embedded atlas description.
func DefaultAtlas() (*Atlas, error) {
	return ParseAtlas(bytes.NewReader(defaultAtlas))
}

// DefaultPageImage returns the encoded image for a page of the embedded atlas.
func DefaultPageImage(page string) ([]byte, bool) {
	if page != "sprites.png" {
		return nil, false
	}
	return defaultPage, true
}

// LoadAtlas reads an atlas description from path. An empty path returns the
// embedded description.
func LoadAtlas(path string) (*Atlas, error) {
	if path == "" {
		return DefaultAtlas()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening atlas: %w", err)
	}
	defer f.Close()
	return ParseAtlas(f)
}

// ParseAtlas reads a libGDX text atlas. Both the legacy layout (xy, size,
// orig, offset) and the newer one (bounds, offsets) are accepted.
//
// A blank line is followed by a page image name and its fields. An
// unindented line without a colon starts a region; every key: value line
// after that belongs to the region.
func ParseAtlas(r io.Reader) (*Atlas, error) {
	a := &Atlas{}
	sc := bufio.NewScanner(r)

	var (
		page      *Page
		region    *Region
		expectNew = true
		lineNo    int
	)

	flush := func() {
		if region != nil {
			a.regions = append(a.regions, *region)
			region = nil
		}
	}

	for sc.Scan() {
		lineNo++
		raw := strings.TrimRight(sc.Text(), " \t\r")
		line := strings.TrimSpace(raw)

		if line == "" {
			flush()
			expectNew = true
			continue
		}

		indented := raw != strings.TrimLeft(raw, " \t")
		key, value, isField := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case expectNew:
			a.Pages = append(a.Pages, Page{Name: line})
			page = &a.Pages[len(a.Pages)-1]
			expectNew = false

		case isField && region == nil:
			if err := setPageField(page, key, value); err != nil {
				return nil, fmt.Errorf("atlas line %d: %w", lineNo, err)
			}

		case isField:
			if err := setRegionField(region, key, value); err != nil {
				return nil, fmt.Errorf("atlas line %d: region %q: %w", lineNo, region.Name, err)
			}

		case !indented:
			flush()
			region = &Region{Name: components.VisualName(line), Page: page.Name, Index: -1}

		default:
			return nil, fmt.Errorf("atlas line %d: expected key: value, got %q", lineNo, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading atlas: %w", err)
	}
	flush()

	if len(a.Pages) == 0 {
		return nil, fmt.Errorf("atlas has no pages")
	}
	return a, nil
}

func setPageField(p *Page, key, value string) error {
	if key != "size" {
		// format, filter, repeat, pma are texture settings the loader owns
		return nil
	}
	v, err := parseInts(value, 2)
	if err != nil {
		return fmt.Errorf("page size: %w", err)
	}
	p.Width, p.Height = v[0], v[1]
	return nil
}

func setRegionField(r *Region, key, value string) error {
	switch key {
	case "rotate":
		if value != "false" && value != "0" {
			return fmt.Errorf("rotated regions are not supported")
		}
	case "xy":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		r.X, r.Y = v[0], v[1]
	case "size":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		r.Width, r.Height = v[0], v[1]
	case "bounds":
		v, err := parseInts(value, 4)
		if err != nil {
			return err
		}
		r.X, r.Y, r.Width, r.Height = v[0], v[1], v[2], v[3]
	case "orig":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		r.OrigWidth, r.OrigHeight = v[0], v[1]
	case "offset":
		v, err := parseInts(value, 2)
		if err != nil {
			return err
		}
		r.OffsetX, r.OffsetY = v[0], v[1]
	case "offsets":
		v, err := parseInts(value, 4)
		if err != nil {
			return err
		}
		r.OffsetX, r.OffsetY, r.OrigWidth, r.OrigHeight = v[0], v[1], v[2], v[3]
	case "index":
		v, err := parseInts(value, 1)
		if err != nil {
			return err
		}
		r.Index = v[0]
	}
	return nil
}

func parseInts(value string, n int) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %q", n, value)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad integer %q: %w", p, err)
		}
		out[i] = v
	}
	return out, nil
}
