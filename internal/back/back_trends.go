package back

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/seanzhanng/teaelo/internal/util"
)

// A BrandRatingHistory row is the per-period snapshot of a brand's rating
// and rank, the baseline the trend deltas are computed against.
type BrandRatingHistory struct {
	BrandID     util.UUIDAsBlob
	PeriodStart util.TimeAsTimestamp
	Rating      float64
	Rank        int
}

func (h *BrandRatingHistory) upsert(tx *sqlx.Tx) error {
	if _, err := tx.Exec(
		`DELETE FROM BrandRatingHistory WHERE BrandID = ? AND PeriodStart = ?`,
		h.BrandID, h.PeriodStart,
	); err != nil {
		return err
	}

	query, args, err := squirrel.Insert("BrandRatingHistory").SetMap(squirrel.Eq{
		"BrandID":     h.BrandID,
		"PeriodStart": h.PeriodStart,
		"Rating":      h.Rating,
		"Rank":        h.Rank,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// currentPeriodStart returns the current day at 00:00 UTC. Trends are
// day-over-day, a finer grain would mostly snapshot noise.
func currentPeriodStart(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// previousPeriodStart returns the previous day at 00:00 UTC.
func previousPeriodStart(t time.Time) time.Time {
	return currentPeriodStart(t).AddDate(0, 0, -1)
}

func (b *Back) runPeriodicTasks() error {
	return b.updateBrandTrends(time.Now())
}

// updateBrandTrends snapshots every brand's rating and rank for the current
// period and refreshes the RatingTrend/RankTrend deltas against the previous
// period. Upserting makes it safe to run at any point inside a period.
func (b *Back) updateBrandTrends(now time.Time) error {
	period := util.TimeAsTimestamp(currentPeriodStart(now))
	previous := util.TimeAsTimestamp(previousPeriodStart(now))

	return b.transaction(func(tx *sqlx.Tx) error {
		brands, err := getLeaderboard(tx, -1, 0, "")
		if err != nil {
			return fmt.Errorf("unable to fetch leaderboard: %w", err)
		}

		log.Printf("debug: snapshotting %d brands for period %s", len(brands), period.Time())

		for k := range brands {
			history := BrandRatingHistory{
				BrandID:     brands[k].ID,
				PeriodStart: period,
				Rating:      brands[k].Rating,
				Rank:        brands[k].Rank,
			}
			if err := history.upsert(tx); err != nil {
				return fmt.Errorf("unable to upsert rating history: %w", err)
			}

			baseline, err := getBrandRatingHistory(tx, brands[k].ID, previous)
			if errors.Is(err, sql.ErrNoRows) {
				continue // new brand, no baseline to diff against
			} else if err != nil {
				return err
			}

			brands[k].RatingTrend = brands[k].Rating - baseline.Rating
			brands[k].RankTrend = baseline.Rank - brands[k].Rank // climbing is positive
			if err := brands[k].updateTrends(tx); err != nil {
				return fmt.Errorf("unable to update trends: %w", err)
			}
		}

		return nil
	})
}

func getBrandRatingHistory(
	tx *sqlx.Tx, brandID util.UUIDAsBlob, period util.TimeAsTimestamp,
) (BrandRatingHistory, error) {
	var ret BrandRatingHistory
	query := `SELECT * FROM BrandRatingHistory WHERE BrandID = ? AND PeriodStart = ? LIMIT 1`
	if err := tx.Get(&ret, query, brandID, period); err != nil {
		return BrandRatingHistory{}, err
	}

	return ret, nil
}
