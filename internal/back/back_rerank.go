package back

import (
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/seanzhanng/teaelo/internal/util"
)

// Rerank recomputes every brand rating and counter from scratch by replaying
// the full match history in order. This is the escape hatch for when the
// K-factor changes or a bad migration touched ratings: the Match table is
// the ground truth, everything else is derived from it.
func (b *Back) Rerank() error {
	start := time.Now()

	if err := b.transaction(func(tx *sqlx.Tx) error {
		brands, err := getLeaderboard(tx, -1, 0, "")
		if err != nil {
			return err
		}

		matches, err := getMatchesSortedByDate(tx)
		if err != nil {
			return err
		}

		replayed := make(map[util.UUIDAsBlob]*Brand, len(brands))
		for k := range brands {
			brand := brands[k].Brand
			brand.Rating = b.initialRating()
			brand.Wins, brand.Losses, brand.Ties = 0, 0, 0
			replayed[brand.ID] = &brand
		}

		k := b.kFactor()
		for i := range matches {
			winner, ok := replayed[matches[i].WinnerID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrBrandNotFound, matches[i].WinnerID)
			}
			loser, ok := replayed[matches[i].LoserID]
			if !ok {
				return fmt.Errorf("%w: %s", ErrBrandNotFound, matches[i].LoserID)
			}

			matches[i].WinnerRatingBefore = winner.Rating
			matches[i].LoserRatingBefore = loser.Rating
			winner.Rating, loser.Rating = newRatings(k, winner.Rating, loser.Rating, matches[i].IsTie)
			matches[i].WinnerRatingAfter = winner.Rating
			matches[i].LoserRatingAfter = loser.Rating

			if matches[i].IsTie {
				winner.Ties++
				loser.Ties++
			} else {
				winner.Wins++
				loser.Losses++
			}

			if err := matches[i].updateRatings(tx); err != nil {
				return err
			}
		}

		for _, brand := range replayed {
			if err := brand.updateRating(tx); err != nil {
				return err
			}
		}

		// Snapshots derive from ratings, they are stale now.
		if _, err := tx.Exec(`DELETE FROM BrandRatingHistory`); err != nil {
			return err
		}

		log.Printf("info: replayed %d matches over %d brands", len(matches), len(replayed))

		return nil
	}); err != nil {
		return err
	}

	if err := b.updateBrandTrends(time.Now()); err != nil {
		return err
	}

	log.Printf("info: recomputed rankings in %s", time.Since(start))

	return nil
}
