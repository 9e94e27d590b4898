package bulk

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/scoutcamp/campo/internal/domain"
)

// WriteTerrains writes terrains in the import format. header is false when
// appending to an existing file.
func WriteTerrains(w io.Writer, terrains []domain.Terrain, header bool) error {
	cw := csv.NewWriter(w)

	if header {
		if err := cw.Write(columns[KindTerrains]); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	for _, t := range terrains {
		polygon := t.Polygon
		if polygon == nil {
			polygon = []domain.Coordinate{}
		}
		images := t.ImageURLs
		if images == nil {
			images = []string{}
		}

		polygonJSON, err := json.Marshal(polygon)
		if err != nil {
			return fmt.Errorf("json.Marshal polygon -> %w", err)
		}
		imagesJSON, err := json.Marshal(images)
		if err != nil {
			return fmt.Errorf("json.Marshal images -> %w", err)
		}

		row := []string{
			t.Name,
			t.Tags,
			strconv.FormatFloat(t.CenterLat, 'f', 6, 64),
			strconv.FormatFloat(t.CenterLon, 'f', 6, 64),
			string(polygonJSON),
			t.Description,
			string(imagesJSON),
		}
		if err = cw.Write(row); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
