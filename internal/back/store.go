package back

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"

	"github.com/seanzhanng/teaelo/internal/util"
)

// A StoreLocation links one physical storefront from a places directory to
// the Brand that operates it. The PlaceID unicity is what makes discovery
// idempotent: feeding the same place twice never creates a second link.
type StoreLocation struct {
	ID        util.UUIDAsBlob
	CreatedAt util.TimeAsTimestamp

	PlaceID string
	BrandID util.UUIDAsBlob

	CountryCode null.String
	City        null.String
}

func newStoreLocation(placeID string, brandID util.UUIDAsBlob, country, city string) StoreLocation {
	return StoreLocation{
		ID:          util.NewUUIDAsBlob(),
		CreatedAt:   util.TimeAsTimestamp(time.Now()),
		PlaceID:     placeID,
		BrandID:     brandID,
		CountryCode: null.NewString(country, country != ""),
		City:        null.NewString(city, city != ""),
	}
}

func (s *StoreLocation) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("StoreLocation").SetMap(squirrel.Eq{
		"ID":          s.ID,
		"CreatedAt":   s.CreatedAt,
		"PlaceID":     s.PlaceID,
		"BrandID":     s.BrandID,
		"CountryCode": s.CountryCode,
		"City":        s.City,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getStoreLocationByPlaceID(tx *sqlx.Tx, placeID string) (StoreLocation, error) {
	var ret StoreLocation
	query := `SELECT * FROM StoreLocation WHERE StoreLocation.PlaceID = ? LIMIT 1`
	if err := tx.Get(&ret, query, placeID); err != nil {
		return StoreLocation{}, err
	}

	return ret, nil
}
