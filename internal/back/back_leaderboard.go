package back

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/seanzhanng/teaelo/internal/util"
)

// rankSubQuery computes the 1-based, total-order rank of a brand: rating
// descending, ties broken by id ascending so identical rating sets always
// rank the same way. Rank is a projection over committed ratings, it is
// never stored on the Brand row itself.
const rankSubQuery = `(
    SELECT COUNT(*) FROM Brand other
    WHERE other.Rating > Brand.Rating
       OR (other.Rating = Brand.Rating AND other.ID < Brand.ID)
) + 1`

// A RankedBrand is a Brand with its leaderboard position attached.
type RankedBrand struct {
	Brand
	Rank int `json:"rank"`
}

// GetLeaderboard returns brands ordered by rating. The rank is always the
// global one: searching narrows the rows returned, not the ranking.
func (b *Back) GetLeaderboard(limit, offset int, search string) (out []RankedBrand, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		out, err = getLeaderboard(tx, limit, offset, search)
		return err
	}); err != nil {
		return nil, err
	}

	return out, nil
}

func getLeaderboard(tx *sqlx.Tx, limit, offset int, search string) ([]RankedBrand, error) {
	query := fmt.Sprintf(`
        SELECT Brand.*, %s AS Rank
        FROM Brand
        WHERE ? = '' OR Brand.Name LIKE '%%' || ? || '%%'
        ORDER BY Brand.Rating DESC, Brand.ID ASC
        LIMIT ? OFFSET ?`,
		rankSubQuery,
	)

	// A negative limit means no limit, both for SQLite and for us.
	var ret []RankedBrand
	if err := tx.Select(&ret, query, search, search, limit, offset); err != nil {
		return nil, err
	}

	return ret, nil
}

// GetBrand returns one brand and its current rank.
func (b *Back) GetBrand(id util.UUIDAsBlob) (out RankedBrand, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		out, err = getRankedBrandByID(tx, id)
		return err
	}); err != nil {
		return RankedBrand{}, err
	}

	return out, nil
}

func getRankedBrandByID(tx *sqlx.Tx, id util.UUIDAsBlob) (RankedBrand, error) {
	query := fmt.Sprintf(
		`SELECT Brand.*, %s AS Rank FROM Brand WHERE Brand.ID = ? LIMIT 1`,
		rankSubQuery,
	)

	var ret RankedBrand
	if err := tx.Get(&ret, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RankedBrand{}, fmt.Errorf("%w: %s", ErrBrandNotFound, id)
		}

		return RankedBrand{}, err
	}

	return ret, nil
}
