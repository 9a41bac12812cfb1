package back

import (
	"github.com/jmoiron/sqlx"

	"github.com/seanzhanng/teaelo/internal/util"
)

// GetRandomPair picks two distinct brands for a face-off, optionally only
// brands present in a given region. Fails when fewer than two brands
// qualify.
func (b *Back) GetRandomPair(country string) (pair [2]Brand, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		pair, err = getRandomPair(tx, country)
		return err
	}); err != nil {
		return [2]Brand{}, err
	}

	return pair, nil
}

func getRandomPair(tx *sqlx.Tx, country string) ([2]Brand, error) {
	// RegionsPresent is a JSON array of strings, country codes never contain
	// quotes, so a quoted LIKE is an exact membership test.
	query := `
        SELECT * FROM Brand
        WHERE ? = '' OR Brand.RegionsPresent LIKE '%"' || ? || '"%'
        ORDER BY RANDOM()
        LIMIT 2`

	var brands []Brand
	if err := tx.Select(&brands, query, country, country); err != nil {
		return [2]Brand{}, err
	}

	if len(brands) < 2 {
		return [2]Brand{}, util.ErrPublic("not enough brands to form a pair")
	}

	return [2]Brand{brands[0], brands[1]}, nil
}
