package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/scoutcamp/campo/internal/domain"
)

// ReservationRow is one line of a reservations CSV. Start is written
// without an offset and read back in the camp time zone.
type ReservationRow struct {
	Terrain  string
	Unit     string
	Start    time.Time
	Duration int
	Status   domain.ReservationStatus
}

// GenerateReservations draws n approved demo bookings that start on the
// hour between 08:00 and 20:00 on a day in [from, to]. Rows may overlap;
// the importer skips the ones that do.
func GenerateReservations(rnd *rand.Rand, terrains, units []string, n int, from, to time.Time, maxHours int) []ReservationRow {
	if len(terrains) == 0 || len(units) == 0 || n <= 0 || to.Before(from) || maxHours < 1 {
		return nil
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	days := int(to.Sub(from).Hours() / 24)

	rows := make([]ReservationRow, 0, n)
	for i := 0; i < n; i++ {
		day := from.AddDate(0, 0, rnd.Intn(days+1))
		start := day.Add(time.Duration(8+rnd.Intn(13)) * time.Hour)

		rows = append(rows, ReservationRow{
			Terrain:  terrains[rnd.Intn(len(terrains))],
			Unit:     units[rnd.Intn(len(units))],
			Start:    start,
			Duration: 1 + rnd.Intn(maxHours),
			Status:   domain.ReservationApproved,
		})
	}

	return rows
}

func WriteReservations(w io.Writer, rows []ReservationRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns[KindReservations]); err != nil {
		return fmt.Errorf("cw.Write -> %w", err)
	}
	for _, r := range rows {
		row := []string{r.Terrain, r.Unit, r.Start.Format("2006-01-02T15:04:05"), strconv.Itoa(r.Duration), string(r.Status)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
