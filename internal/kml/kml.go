// Package kml extracts terrain polygons from KML and KMZ files exported by
// Google Earth, Google My Maps or geo.admin.ch.
package kml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/scoutcamp/campo/internal/domain"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, use .kml or .kmz")
	ErrNoKML             = errors.New("no KML document inside the KMZ archive")
)

type placemark struct {
	ID          string    `xml:"id,attr"`
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	Polygons    []polygon `xml:"Polygon"`
	Multi       []polygon `xml:"MultiGeometry>Polygon"`
}

type polygon struct {
	Outer string `xml:"outerBoundaryIs>LinearRing>coordinates"`
}

func (p placemark) outer() string {
	for _, poly := range append(p.Polygons, p.Multi...) {
		if strings.TrimSpace(poly.Outer) != "" {
			return poly.Outer
		}
	}

	return ""
}

// ReadFile dispatches on the file extension.
func ReadFile(path string) ([]domain.Terrain, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("os.Open -> %w", err)
		}
		defer f.Close()

		return Parse(f)
	case ".kmz":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("os.ReadFile -> %w", err)
		}

		return ParseKMZ(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseKMZ reads the first .kml entry of a KMZ archive.
func ParseKMZ(data []byte) ([]domain.Terrain, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("zip.NewReader -> %w", err)
	}

	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Ext(f.Name), ".kml") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("f.Open %s -> %w", f.Name, err)
		}
		defer rc.Close()

		return Parse(rc)
	}

	return nil, ErrNoKML
}

// Parse returns one terrain per placemark that carries a polygon, in
// document order. KML lists "lon,lat[,alt]"; polygons come back as open
// rings of [lat, lon] pairs with the center at the vertex mean.
func Parse(r io.Reader) ([]domain.Terrain, error) {
	dec := xml.NewDecoder(r)
	namer := &namer{}

	var terrains []domain.Terrain
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dec.Token -> %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "Placemark" {
			continue
		}

		var pm placemark
		if err = dec.DecodeElement(&pm, &start); err != nil {
			return nil, fmt.Errorf("dec.DecodeElement -> %w", err)
		}

		raw := pm.outer()
		if raw == "" {
			continue
		}

		name := namer.name(pm)
		coords, err := parseCoordinates(raw)
		if err != nil {
			return nil, fmt.Errorf("placemark %q: %w", name, err)
		}
		if len(coords) == 0 {
			continue
		}

		description := strings.TrimSpace(pm.Description)
		if description == name {
			description = ""
		}

		center := domain.Centroid(coords)
		terrains = append(terrains, domain.Terrain{
			Name:        name,
			CenterLat:   center.Lat(),
			CenterLon:   center.Lon(),
			Polygon:     coords,
			Description: description,
		})
	}

	return terrains, nil
}

// namer picks a placemark name: <name>, then <description>, then the id
// attribute, then "Terreno N". Generated drawing ids also get "Terreno N".
type namer struct {
	unnamed int
}

func (n *namer) name(pm placemark) string {
	if name := strings.TrimSpace(pm.Name); name != "" {
		return name
	}
	if desc := strings.TrimSpace(pm.Description); desc != "" {
		return desc
	}

	id := strings.ToLower(pm.ID)
	if pm.ID != "" && !strings.Contains(id, "drawing") && !strings.Contains(id, "feature") {
		return pm.ID
	}

	n.unnamed++
	return fmt.Sprintf("Terreno %d", n.unnamed)
}

func parseCoordinates(raw string) ([]domain.Coordinate, error) {
	var coords []domain.Coordinate

	for _, tuple := range strings.Fields(raw) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			continue
		}

		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q", parts[0])
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q", parts[1])
		}

		coords = append(coords, domain.Coordinate{lat, lon})
	}

	// KML rings repeat the first vertex at the end.
	if n := len(coords); n > 3 && coords[0] == coords[n-1] {
		coords = coords[:n-1]
	}

	return coords, nil
}
