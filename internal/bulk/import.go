package bulk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/service"
)

type Kind string

const (
	KindUnits        Kind = "units"
	KindPatrols      Kind = "patrols"
	KindChallenges   Kind = "challenges"
	KindCompletions  Kind = "completions"
	KindTerrains     Kind = "terrains"
	KindReservations Kind = "reservations"
)

// Kinds lists the importable kinds in dependency order.
func Kinds() []Kind {
	return []Kind{KindUnits, KindPatrols, KindChallenges, KindCompletions, KindTerrains, KindReservations}
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}

	return "", fmt.Errorf("unknown kind %q", s)
}

var columns = map[Kind][]string{
	KindUnits:        {"UnitName", "Sottocampo"},
	KindPatrols:      {"Name", "CapoPattuglia", "UnitName"},
	KindChallenges:   {"Name", "Description", "Points", "RewardTokens", "IsFungo"},
	KindCompletions:  {"PattugliaName", "ChallengeName", "Timestamp"},
	KindTerrains:     {"Name", "Tags", "CenterLat", "CenterLon", "Polygon", "Description", "ImageUrls"},
	KindReservations: {"TerrenoName", "UnitName", "StartTime", "Duration", "Status"},
}

type CampStore interface {
	FindUnitByName(ctx context.Context, name string) (domain.Unit, error)
	CreateUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error)
	FindPatrolByName(ctx context.Context, name string) (domain.Patrol, error)
	CreatePatrol(ctx context.Context, patrol domain.Patrol) (domain.Patrol, error)
	FindChallengeByName(ctx context.Context, name string) (domain.Challenge, error)
	CreateChallenge(ctx context.Context, challenge domain.Challenge) (domain.Challenge, error)
}

type Scorer interface {
	Complete(ctx context.Context, patrolID, challengeID uint, at time.Time) (domain.Completion, error)
}

type TerrainStore interface {
	FindByName(ctx context.Context, name string) (domain.Terrain, error)
	Create(ctx context.Context, terrain domain.Terrain) (domain.Terrain, error)
}

type Booker interface {
	Book(ctx context.Context, terrainID, unitID uint, start time.Time, hours int) (domain.Reservation, error)
	Approve(ctx context.Context, id uint) error
	ParseTime(value string) (time.Time, error)
}

// Result counts what an import did. Rows that could not be applied are
// skipped and explained in Warnings.
type Result struct {
	Created  int
	Skipped  int
	Warnings []string
}

func (r *Result) warn(rec record, format string, args ...any) {
	r.Skipped++
	r.Warnings = append(r.Warnings, fmt.Sprintf("line %d: ", rec.line)+fmt.Sprintf(format, args...))
}

// Importer loads CSV files through the services, so every row obeys the
// same rules as the web forms. Imports are idempotent by name.
type Importer struct {
	camp     CampStore
	score    Scorer
	terrains TerrainStore
	booker   Booker
}

func NewImporter(camp CampStore, score Scorer, terrains TerrainStore, booker Booker) *Importer {
	return &Importer{
		camp:     camp,
		score:    score,
		terrains: terrains,
		booker:   booker,
	}
}

func (im *Importer) Import(ctx context.Context, kind Kind, r io.Reader) (Result, error) {
	records, err := readRecords(r, columns[kind])
	if err != nil {
		return Result{}, fmt.Errorf("readRecords %s -> %w", kind, err)
	}

	var apply func(context.Context, record, *Result) error
	switch kind {
	case KindUnits:
		apply = im.importUnit
	case KindPatrols:
		apply = im.importPatrol
	case KindChallenges:
		apply = im.importChallenge
	case KindCompletions:
		apply = im.importCompletion
	case KindTerrains:
		apply = im.importTerrain
	case KindReservations:
		apply = im.importReservation
	default:
		return Result{}, fmt.Errorf("unknown kind %q", kind)
	}

	var res Result
	for _, rec := range records {
		if err := apply(ctx, rec, &res); err != nil {
			return res, fmt.Errorf("line %d -> %w", rec.line, err)
		}
	}

	zap.L().Info("import done",
		zap.String("kind", string(kind)),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped))

	return res, nil
}

func (im *Importer) importUnit(ctx context.Context, rec record, res *Result) error {
	name := rec.get("UnitName")
	if name == "" {
		res.warn(rec, "empty unit name")
		return nil
	}

	_, err := im.camp.CreateUnit(ctx, domain.Unit{Name: name, SubCamp: rec.get("Sottocampo")})
	return created(res, rec, name, err)
}

func (im *Importer) importPatrol(ctx context.Context, rec record, res *Result) error {
	name, unitName := rec.get("Name"), rec.get("UnitName")
	if name == "" {
		res.warn(rec, "empty patrol name")
		return nil
	}

	unit, err := im.camp.FindUnitByName(ctx, unitName)
	if err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			res.warn(rec, "unit %q not found for patrol %q", unitName, name)
			return nil
		}
		return fmt.Errorf("im.camp.FindUnitByName -> %w", err)
	}

	_, err = im.camp.CreatePatrol(ctx, domain.Patrol{Name: name, Leader: rec.get("CapoPattuglia"), UnitID: unit.ID})
	return created(res, rec, name, err)
}

func (im *Importer) importChallenge(ctx context.Context, rec record, res *Result) error {
	name := rec.get("Name")
	if name == "" {
		res.warn(rec, "empty challenge name")
		return nil
	}

	points, err := strconv.Atoi(rec.get("Points"))
	if err != nil {
		res.warn(rec, "challenge %q: invalid points %q", name, rec.get("Points"))
		return nil
	}
	tokens, err := atoiDefault(rec.get("RewardTokens"), 0)
	if err != nil {
		res.warn(rec, "challenge %q: invalid reward tokens %q", name, rec.get("RewardTokens"))
		return nil
	}

	_, err = im.camp.CreateChallenge(ctx, domain.Challenge{
		Name:         name,
		Description:  rec.get("Description"),
		Points:       points,
		RewardTokens: tokens,
		IsFungo:      strings.EqualFold(rec.get("IsFungo"), "true"),
	})
	return created(res, rec, name, err)
}

// importCompletion goes through the score engine so the patrol score moves
// with the new row.
func (im *Importer) importCompletion(ctx context.Context, rec record, res *Result) error {
	patrolName, challengeName := rec.get("PattugliaName"), rec.get("ChallengeName")

	patrol, err := im.camp.FindPatrolByName(ctx, patrolName)
	if err != nil {
		if errors.Is(err, service.ErrPatrolNotFound) {
			res.warn(rec, "patrol %q not found", patrolName)
			return nil
		}
		return fmt.Errorf("im.camp.FindPatrolByName -> %w", err)
	}

	challenge, err := im.camp.FindChallengeByName(ctx, challengeName)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			res.warn(rec, "challenge %q not found", challengeName)
			return nil
		}
		return fmt.Errorf("im.camp.FindChallengeByName -> %w", err)
	}

	var at time.Time
	if ts := rec.get("Timestamp"); ts != "" {
		if at, err = im.booker.ParseTime(ts); err != nil {
			res.warn(rec, "invalid timestamp %q", ts)
			return nil
		}
	}

	_, err = im.score.Complete(ctx, patrol.ID, challenge.ID, at)
	if errors.Is(err, service.ErrAlreadyCompleted) {
		res.Skipped++
		return nil
	}

	return created(res, rec, patrolName+"/"+challengeName, err)
}

func (im *Importer) importTerrain(ctx context.Context, rec record, res *Result) error {
	name := rec.get("Name")
	if name == "" {
		res.warn(rec, "empty terrain name")
		return nil
	}

	lat, errLat := parseFloat(rec.get("CenterLat"))
	lon, errLon := parseFloat(rec.get("CenterLon"))
	if errLat != nil || errLon != nil {
		res.warn(rec, "terrain %q: invalid center", name)
		return nil
	}

	var polygon []domain.Coordinate
	if err := decodeJSON(rec.get("Polygon"), &polygon); err != nil {
		res.warn(rec, "terrain %q: invalid polygon: %v", name, err)
		return nil
	}
	var images []string
	if err := decodeJSON(rec.get("ImageUrls"), &images); err != nil {
		res.warn(rec, "terrain %q: invalid image list: %v", name, err)
		return nil
	}

	_, err := im.terrains.Create(ctx, domain.Terrain{
		Name:        name,
		Tags:        rec.get("Tags"),
		CenterLat:   lat,
		CenterLon:   lon,
		Polygon:     polygon,
		Description: rec.get("Description"),
		ImageURLs:   images,
	})
	return created(res, rec, name, err)
}

// importReservation books through the availability engine; rows that overlap
// an existing booking are skipped with a warning.
func (im *Importer) importReservation(ctx context.Context, rec record, res *Result) error {
	terrainName, unitName := rec.get("TerrenoName"), rec.get("UnitName")

	terrain, err := im.terrains.FindByName(ctx, terrainName)
	if err != nil {
		if errors.Is(err, service.ErrTerrainNotFound) {
			res.warn(rec, "terrain %q not found", terrainName)
			return nil
		}
		return fmt.Errorf("im.terrains.FindByName -> %w", err)
	}

	unit, err := im.camp.FindUnitByName(ctx, unitName)
	if err != nil {
		if errors.Is(err, service.ErrUnitNotFound) {
			res.warn(rec, "unit %q not found", unitName)
			return nil
		}
		return fmt.Errorf("im.camp.FindUnitByName -> %w", err)
	}

	start, err := im.booker.ParseTime(rec.get("StartTime"))
	if err != nil {
		res.warn(rec, "invalid start time %q", rec.get("StartTime"))
		return nil
	}
	hours, err := strconv.Atoi(rec.get("Duration"))
	if err != nil {
		res.warn(rec, "invalid duration %q", rec.get("Duration"))
		return nil
	}
	status := domain.ReservationStatus(strings.ToUpper(rec.get("Status")))
	if status == "" {
		status = domain.ReservationPending
	}
	if !status.Valid() {
		res.warn(rec, "invalid status %q", rec.get("Status"))
		return nil
	}

	reservation, err := im.booker.Book(ctx, terrain.ID, unit.ID, start, hours)
	if err != nil {
		if errors.Is(err, service.ErrReservationConflict) || errors.Is(err, service.ErrInvalidInput) {
			res.warn(rec, "%s for %s: %v", terrainName, unitName, err)
			return nil
		}
		return fmt.Errorf("im.booker.Book -> %w", err)
	}

	if status == domain.ReservationApproved {
		if err = im.booker.Approve(ctx, reservation.ID); err != nil {
			return fmt.Errorf("im.booker.Approve -> %w", err)
		}
	}

	res.Created++
	return nil
}

// created counts a create call. Name clashes mean the row was imported
// before and are skipped.
func created(res *Result, rec record, name string, err error) error {
	switch {
	case err == nil:
		res.Created++
		return nil
	case isNameClash(err):
		res.Skipped++
		return nil
	case errors.Is(err, service.ErrInvalidInput), isMissingReference(err):
		res.warn(rec, "%s: %v", name, err)
		return nil
	default:
		return err
	}
}

func isNameClash(err error) bool {
	return errors.Is(err, service.ErrUnitNameExists) ||
		errors.Is(err, service.ErrPatrolNameExists) ||
		errors.Is(err, service.ErrChallengeNameExists) ||
		errors.Is(err, service.ErrTerrainNameExists)
}

func isMissingReference(err error) bool {
	return errors.Is(err, service.ErrUnitNotFound) ||
		errors.Is(err, service.ErrPatrolNotFound) ||
		errors.Is(err, service.ErrChallengeNotFound)
}

func atoiDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}

	return strconv.Atoi(s)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// decodeJSON leaves v untouched for an empty cell.
func decodeJSON(s string, v any) error {
	if s == "" {
		return nil
	}

	return json.Unmarshal([]byte(s), v)
}
