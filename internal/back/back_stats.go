package back

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

// StatsMisc holds aggregate figures about the whole ladder.
type StatsMisc struct {
	Brands        int `json:"brands"`
	RatedBrands   int `json:"rated_brands"`
	Matches       int `json:"matches"`
	Ties          int `json:"ties"`
	MatchesPerDay int `json:"matches_per_day"`

	TopRegions []RegionCount `json:"top_regions"`
}

type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// RatingBucket is one bar of the rating distribution histogram.
type RatingBucket struct {
	Min   int `json:"min"`
	Count int `json:"count"`
}

const ratingBucketSize = 50

func (b *Back) GetMiscStats() (misc StatsMisc, _ error) {
	start := time.Now()
	defer func() { log.Printf("info: computed misc stats in %s", time.Since(start)) }()

	if err := b.transaction(func(tx *sqlx.Tx) error {
		var err error
		if misc.Brands, err = getBrandCount(tx); err != nil {
			return err
		}

		if err := tx.Get(
			&misc.RatedBrands,
			`SELECT COUNT(*) FROM Brand WHERE (Wins + Losses + Ties) > 0`,
		); err != nil {
			return err
		}

		if misc.Matches, misc.Ties, err = getMatchCount(tx); err != nil {
			return err
		}

		var firstMatch int64
		if err := tx.Get(
			&firstMatch,
			`SELECT COALESCE(MIN(CreatedAt), 0) FROM Match`,
		); err != nil {
			return err
		}
		if firstMatch > 0 {
			days := int(time.Since(time.Unix(firstMatch, 0)).Hours()/24) + 1
			misc.MatchesPerDay = misc.Matches / days
		}

		if misc.TopRegions, err = getTopRegions(tx); err != nil {
			return err
		}

		return nil
	}); err != nil {
		return StatsMisc{}, err
	}

	return misc, nil
}

// GetRatingDistribution buckets every brand rating in ratingBucketSize wide
// bars, for the leaderboard histogram.
func (b *Back) GetRatingDistribution() (out []RatingBucket, _ error) {
	var ratings []float64
	if err := b.transaction(func(tx *sqlx.Tx) error {
		return tx.Select(&ratings, `SELECT Rating FROM Brand ORDER BY Rating ASC`)
	}); err != nil {
		return nil, err
	}

	buckets := map[int]int{}
	for _, rating := range ratings {
		min := int(math.Floor(rating/ratingBucketSize)) * ratingBucketSize
		buckets[min]++
	}

	out = make([]RatingBucket, 0, len(buckets))
	for min, count := range buckets {
		out = append(out, RatingBucket{Min: min, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Min < out[j].Min })

	return out, nil
}

func getTopRegions(tx *sqlx.Tx) ([]RegionCount, error) {
	// Regions live inside a JSON array on each brand, the store rows are the
	// flat source to aggregate on.
	var ret []RegionCount
	query := `
        SELECT CountryCode AS Region, COUNT(*) AS Count
        FROM StoreLocation
        WHERE CountryCode IS NOT NULL AND CountryCode != ''
        GROUP BY CountryCode
        ORDER BY COUNT(*) DESC, CountryCode ASC
        LIMIT 10`
	if err := tx.Select(&ret, query); err != nil {
		return nil, err
	}

	return ret, nil
}
