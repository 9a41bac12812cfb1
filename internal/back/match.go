package back

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"

	"github.com/seanzhanng/teaelo/internal/util"
)

// A Match is the persisted record of one vote between two brands. It is
// written once when the vote is recorded and never mutated, the before/after
// ratings make the full rating history replayable (see back_rerank.go).
type Match struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	WinnerID util.UUIDAsBlob
	LoserID  util.UUIDAsBlob

	WinnerRatingBefore float64
	WinnerRatingAfter  float64
	LoserRatingBefore  float64
	LoserRatingAfter   float64

	IsTie bool

	LocationCountry null.String
	LocationCity    null.String
}

// MatchLocation is optional metadata about where a vote came from.
type MatchLocation struct {
	Country string
	City    string
}

// MatchResult is the atomic output of one recorded match, returned to the
// caller and never stored as-is.
type MatchResult struct {
	WinnerID           util.UUIDAsBlob `json:"winner_id"`
	WinnerNewRating    float64         `json:"winner_new_rating"`
	WinnerRatingChange float64         `json:"winner_rating_change"`

	LoserID           util.UUIDAsBlob `json:"loser_id"`
	LoserNewRating    float64         `json:"loser_new_rating"`
	LoserRatingChange float64         `json:"loser_rating_change"`

	IsTie bool `json:"is_tie"`
}

func (m *Match) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Match").SetMap(squirrel.Eq{
		"ID":                 m.ID,
		"CreatedAt":          m.CreatedAt,
		"WinnerID":           m.WinnerID,
		"LoserID":            m.LoserID,
		"WinnerRatingBefore": m.WinnerRatingBefore,
		"WinnerRatingAfter":  m.WinnerRatingAfter,
		"LoserRatingBefore":  m.LoserRatingBefore,
		"LoserRatingAfter":   m.LoserRatingAfter,
		"IsTie":              m.IsTie,
		"LocationCountry":    m.LocationCountry,
		"LocationCity":       m.LocationCity,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func newMatch(winner, loser Brand, isTie bool, loc MatchLocation) Match {
	return Match{
		ID:        util.NewUUIDAsBlob(),
		CreatedAt: util.TimeAsTimestamp(time.Now()),

		WinnerID: winner.ID,
		LoserID:  loser.ID,

		WinnerRatingBefore: winner.Rating,
		LoserRatingBefore:  loser.Rating,

		IsTie: isTie,

		LocationCountry: null.NewString(loc.Country, loc.Country != ""),
		LocationCity:    null.NewString(loc.City, loc.City != ""),
	}
}

// updateRatings rewrites the before/after ratings of a match, only Rerank
// does this when it replays history with different engine parameters.
func (m *Match) updateRatings(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Match").SetMap(squirrel.Eq{
		"WinnerRatingBefore": m.WinnerRatingBefore,
		"WinnerRatingAfter":  m.WinnerRatingAfter,
		"LoserRatingBefore":  m.LoserRatingBefore,
		"LoserRatingAfter":   m.LoserRatingAfter,
	}).Where("Match.ID = ?", m.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getMatchesSortedByDate(tx *sqlx.Tx) ([]Match, error) {
	// CreatedAt has second granularity, the rowid disambiguates matches
	// recorded inside the same second so a replay follows insertion order.
	var ret []Match
	query := `SELECT * FROM Match ORDER BY Match.CreatedAt ASC, Match.rowid ASC`
	if err := tx.Select(&ret, query); err != nil {
		return nil, err
	}

	return ret, nil
}

func getMatchCount(tx *sqlx.Tx) (total, ties int, _ error) {
	if err := tx.Get(&total, `SELECT COUNT(*) FROM Match`); err != nil {
		return 0, 0, err
	}

	if err := tx.Get(&ties, `SELECT COUNT(*) FROM Match WHERE IsTie != 0`); err != nil {
		return 0, 0, err
	}

	return total, ties, nil
}
