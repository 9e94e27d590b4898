package domain

import "time"

type Unit struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	SubCamp   string    `json:"sottocampo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patrol is the smallest scored group. Score caches the sum of the points of
// every completed challenge and is only written by the score engine.
type Patrol struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Leader    string    `json:"capo_pattuglia"`
	UnitID    uint      `json:"unit_id"`
	Unit      Unit      `json:"unit"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Challenge struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Points       int       `json:"points"`
	IsFungo      bool      `json:"is_fungo"`
	RewardTokens int       `json:"reward_tokens"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Completion struct {
	ID          uint      `json:"id"`
	PatrolID    uint      `json:"patrol_id"`
	ChallengeID uint      `json:"challenge_id"`
	Patrol      Patrol    `json:"patrol"`
	Challenge   Challenge `json:"challenge"`
	CompletedAt time.Time `json:"completed_at"`
}

// RankedPatrol is a patrol with its 1-based position in a ranking.
type RankedPatrol struct {
	Patrol
	Rank int `json:"rank"`
}

// Rank assigns contiguous 1-based positions to patrols already sorted by
// descending score.
func Rank(patrols []Patrol) []RankedPatrol {
	ranked := make([]RankedPatrol, len(patrols))
	for i, p := range patrols {
		ranked[i] = RankedPatrol{Patrol: p, Rank: i + 1}
	}

	return ranked
}
