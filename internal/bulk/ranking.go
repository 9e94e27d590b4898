package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/scoutcamp/campo/internal/domain"
)

var rankingHeader = []string{"Posizione", "Pattuglia", "Capo Pattuglia", "Unità", "Sottocampo", "Punteggio"}

// WriteRanking writes one row per patrol in the given order.
func WriteRanking(w io.Writer, ranking []domain.RankedPatrol) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(rankingHeader); err != nil {
		return fmt.Errorf("cw.Write -> %w", err)
	}

	for _, p := range ranking {
		row := []string{
			strconv.Itoa(p.Rank),
			p.Name,
			p.Leader,
			p.Unit.Name,
			p.Unit.SubCamp,
			strconv.Itoa(p.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cw.Write -> %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
