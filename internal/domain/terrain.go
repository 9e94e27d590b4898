package domain

import (
	"strings"
	"time"
)

// Coordinate is a [lat, lon] pair.
type Coordinate [2]float64

func (c Coordinate) Lat() float64 { return c[0] }
func (c Coordinate) Lon() float64 { return c[1] }

type Terrain struct {
	ID          uint         `json:"id"`
	Name        string       `json:"name"`
	Tags        string       `json:"tags"`
	CenterLat   float64      `json:"center_lat"`
	CenterLon   float64      `json:"center_lon"`
	Polygon     []Coordinate `json:"polygon"`
	Description string       `json:"description"`
	ImageURLs   []string     `json:"image_urls"`
	CreatedAt   time.Time    `json:"-"`
	UpdatedAt   time.Time    `json:"-"`
}

// TagList splits the comma-separated tags, dropping blanks.
func (t Terrain) TagList() []string {
	var tags []string
	for _, tag := range strings.Split(t.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return tags
}

// Centroid is the arithmetic mean of the polygon vertices.
func Centroid(polygon []Coordinate) Coordinate {
	if len(polygon) == 0 {
		return Coordinate{}
	}

	var lat, lon float64
	for _, c := range polygon {
		lat += c[0]
		lon += c[1]
	}
	n := float64(len(polygon))

	return Coordinate{lat / n, lon / n}
}

type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "PENDING"
	ReservationApproved ReservationStatus = "APPROVED"
)

func (s ReservationStatus) Valid() bool {
	return s == ReservationPending || s == ReservationApproved
}

type Reservation struct {
	ID        uint              `json:"id"`
	TerrainID uint              `json:"terrain_id"`
	UnitID    uint              `json:"unit_id"`
	Terrain   Terrain           `json:"-"`
	Unit      Unit              `json:"-"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	Duration  int               `json:"duration"`
	Status    ReservationStatus `json:"status"`
	CreatedAt time.Time         `json:"-"`
	UpdatedAt time.Time         `json:"-"`
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: start.UTC(), End: end.UTC()}
}

func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Overlaps applies the half-open rule: touching intervals do not overlap.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// Overlap returns how much of [start, end) falls inside w; never negative.
func (w Window) Overlap(start, end time.Time) time.Duration {
	lo := w.Start
	if start.After(lo) {
		lo = start
	}
	hi := w.End
	if end.Before(hi) {
		hi = end
	}
	if !hi.After(lo) {
		return 0
	}

	return hi.Sub(lo)
}

type AvailabilityStatus string

const (
	StatusFree    AvailabilityStatus = "FREE"
	StatusPartial AvailabilityStatus = "PARTIAL"
	StatusBooked  AvailabilityStatus = "BOOKED"
)

// BookedSlot is an overlapping reservation as shown on the map.
type BookedSlot struct {
	ID        uint              `json:"id"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time"`
	UnitName  string            `json:"unit_name"`
	Status    ReservationStatus `json:"status"`
}

type TerrainAvailability struct {
	Terrain
	Status       AvailabilityStatus `json:"status"`
	Reservations []BookedSlot       `json:"reservations"`
}
