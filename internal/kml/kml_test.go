package kml

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutcamp/campo/internal/domain"
)

const document = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Campo estivo</name>
    <Folder>
      <Placemark id="drawing_1">
        <name>Prato Grande</name>
        <description>Vicino al fiume</description>
        <Polygon>
          <outerBoundaryIs><LinearRing><coordinates>
            11.0,45.0,0 11.0,46.0,0 12.0,46.0,0 12.0,45.0,0 11.0,45.0,0
          </coordinates></LinearRing></outerBoundaryIs>
        </Polygon>
      </Placemark>
      <Placemark id="pin">
        <name>Cucina</name>
        <Point><coordinates>11.5,45.5,0</coordinates></Point>
      </Placemark>
      <Placemark id="feature_7">
        <MultiGeometry>
          <Polygon>
            <outerBoundaryIs><LinearRing><coordinates>10,44 10,45 11,45</coordinates></LinearRing></outerBoundaryIs>
          </Polygon>
        </MultiGeometry>
      </Placemark>
      <Placemark id="bosco-est">
        <Polygon>
          <outerBoundaryIs><LinearRing><coordinates>9,43 9,44 10,44</coordinates></LinearRing></outerBoundaryIs>
        </Polygon>
      </Placemark>
      <Placemark>
        <description>Radura</description>
        <Polygon>
          <outerBoundaryIs><LinearRing><coordinates>8,42 8,43 9,43</coordinates></LinearRing></outerBoundaryIs>
        </Polygon>
      </Placemark>
      <Placemark>
        <name>Stesso</name>
        <description>Stesso</description>
        <Polygon>
          <outerBoundaryIs><LinearRing><coordinates>7,41 7,42 8,42</coordinates></LinearRing></outerBoundaryIs>
        </Polygon>
      </Placemark>
    </Folder>
  </Document>
</kml>`

func TestParse(t *testing.T) {
	terrains, err := Parse(strings.NewReader(document))
	require.NoError(t, err)
	require.Len(t, terrains, 5)

	names := make([]string, len(terrains))
	for i, terrain := range terrains {
		names[i] = terrain.Name
	}
	assert.Equal(t, []string{"Prato Grande", "Terreno 1", "bosco-est", "Radura", "Stesso"}, names)

	prato := terrains[0]
	assert.Equal(t, []domain.Coordinate{{45, 11}, {46, 11}, {46, 12}, {45, 12}}, prato.Polygon)
	assert.InDelta(t, 45.5, prato.CenterLat, 1e-9)
	assert.InDelta(t, 11.5, prato.CenterLon, 1e-9)
	assert.Equal(t, "Vicino al fiume", prato.Description)

	assert.Equal(t, []domain.Coordinate{{44, 10}, {45, 10}, {45, 11}}, terrains[1].Polygon)
	assert.Empty(t, terrains[3].Description)
	assert.Empty(t, terrains[4].Description)
}

func TestParse_InvalidCoordinates(t *testing.T) {
	_, err := Parse(strings.NewReader(`<kml><Placemark><name>X</name><Polygon><outerBoundaryIs><LinearRing>
		<coordinates>abc,45 11,46 12,46</coordinates></LinearRing></outerBoundaryIs></Polygon></Placemark></kml>`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), `placemark "X"`)
}

func TestParse_NoPolygons(t *testing.T) {
	terrains, err := Parse(strings.NewReader(`<kml><Document><Placemark><name>Pin</name></Placemark></Document></kml>`))
	require.NoError(t, err)
	assert.Empty(t, terrains)
}

func kmz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestParseKMZ(t *testing.T) {
	terrains, err := ParseKMZ(kmz(t, map[string]string{
		"files/icon.png": "png",
		"doc.kml":        document,
	}))
	require.NoError(t, err)
	assert.Len(t, terrains, 5)

	_, err = ParseKMZ(kmz(t, map[string]string{"readme.txt": "nothing here"}))
	assert.ErrorIs(t, err, ErrNoKML)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	kmlPath := filepath.Join(dir, "campo.KML")
	require.NoError(t, os.WriteFile(kmlPath, []byte(document), 0o600))
	terrains, err := ReadFile(kmlPath)
	require.NoError(t, err)
	assert.Len(t, terrains, 5)

	kmzPath := filepath.Join(dir, "campo.kmz")
	require.NoError(t, os.WriteFile(kmzPath, kmz(t, map[string]string{"doc.kml": document}), 0o600))
	terrains, err = ReadFile(kmzPath)
	require.NoError(t, err)
	assert.Len(t, terrains, 5)

	_, err = ReadFile(filepath.Join(dir, "campo.geojson"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
