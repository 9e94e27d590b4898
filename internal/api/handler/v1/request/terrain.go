package request

import (
	"encoding/json"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/scoutcamp/campo/internal/domain"
)

var (
	errInvalidPolygon = errors.New("the polygon must be a JSON list of [lat, lon] pairs")
	errInvalidImage   = errors.New("every image must be an absolute URL")
)

type TerrainRequest struct {
	Name        string  `form:"name"`
	Tags        string  `form:"tags"`
	CenterLat   float64 `form:"center_lat"`
	CenterLon   float64 `form:"center_lon"`
	Polygon     string  `form:"polygon"`
	Description string  `form:"description"`
	ImageURLs   string  `form:"image_urls"` // one per line
}

func (req *TerrainRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.CenterLat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.CenterLon, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&req.Polygon, validation.By(validPolygon)),
	)
	if err != nil {
		return err
	}

	for _, u := range req.Images() {
		if is.URL.Validate(u) != nil {
			return errInvalidImage
		}
	}

	return nil
}

// Coordinates decodes the polygon; an empty field yields no vertices.
func (req *TerrainRequest) Coordinates() []domain.Coordinate {
	coords, _ := parsePolygon(req.Polygon)
	return coords
}

func (req *TerrainRequest) Images() []string {
	var images []string
	for _, line := range strings.FieldsFunc(req.ImageURLs, func(r rune) bool { return r == '\n' || r == ',' }) {
		if line = strings.TrimSpace(line); line != "" {
			images = append(images, line)
		}
	}

	return images
}

func (req *TerrainRequest) Terrain() domain.Terrain {
	return domain.Terrain{
		Name:        req.Name,
		Tags:        req.Tags,
		CenterLat:   req.CenterLat,
		CenterLon:   req.CenterLon,
		Polygon:     req.Coordinates(),
		Description: req.Description,
		ImageURLs:   req.Images(),
	}
}

func validPolygon(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if _, err := parsePolygon(s); err != nil {
		return errInvalidPolygon
	}

	return nil
}

func parsePolygon(s string) ([]domain.Coordinate, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var coords []domain.Coordinate
	if err := json.Unmarshal([]byte(s), &coords); err != nil {
		return nil, err
	}
	for _, c := range coords {
		if c.Lat() < -90 || c.Lat() > 90 || c.Lon() < -180 || c.Lon() > 180 {
			return nil, errInvalidPolygon
		}
	}

	return coords, nil
}

type BookingRequest struct {
	TerrainID uint   `form:"terreno_id"`
	StartTime string `form:"start_time"`
	Duration  int    `form:"duration"`
}

func (req *BookingRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TerrainID, validation.Required),
		validation.Field(&req.StartTime, validation.Required),
		validation.Field(&req.Duration, validation.Required, validation.Min(1)),
	)
}

type AvailabilityQuery struct {
	Start string `form:"start_date"`
	End   string `form:"end_date"`
}

func (req *AvailabilityQuery) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Start, validation.Required),
		validation.Field(&req.End, validation.Required),
	)
}
