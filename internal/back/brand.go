package back

import (
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"

	"github.com/seanzhanng/teaelo/internal/util"
)

// A Brand is a rated competitor. Its Rating, Wins, Losses, and Ties fields
// are mutated only by the rating engine (see back_match.go), every other
// field is descriptive metadata.
type Brand struct {
	ID        util.UUIDAsBlob      `json:"id"`
	CreatedAt util.TimeAsTimestamp `json:"created_at"`
	Name      string               `json:"name"`

	// NormalizedName is the deduplication key used by store discovery.
	NormalizedName string `json:"-"`

	Description     null.String              `json:"description"`
	WebsiteURL      null.String              `json:"website_url"`
	LogoURL         null.String              `json:"logo_url"`
	CountryOfOrigin null.String              `json:"country_of_origin"`
	EstablishedDate util.NullTimeAsTimestamp `json:"established_date"`
	TotalLocations  int                      `json:"total_locations"`
	RegionsPresent  util.StringArrayAsJSON   `json:"regions_present"`

	Rating float64 `json:"rating"`
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Ties   int     `json:"ties"`

	// Deltas against the previous trend period snapshot, maintained by the
	// periodic tasks (back_trends.go).
	RatingTrend float64 `json:"rating_trend"`
	RankTrend   int     `json:"rank_trend"`
}

func NewBrand(name string, initialRating float64) Brand {
	return Brand{
		ID:             util.NewUUIDAsBlob(),
		CreatedAt:      util.TimeAsTimestamp(time.Now()),
		Name:           name,
		NormalizedName: util.NormalizeBrandName(name),
		RegionsPresent: util.StringArrayAsJSON{},
		Rating:         initialRating,
	}
}

func (brand *Brand) insert(tx *sqlx.Tx) error {
	query, args, err := squirrel.Insert("Brand").SetMap(squirrel.Eq{
		"ID":              brand.ID,
		"CreatedAt":       brand.CreatedAt,
		"Name":            brand.Name,
		"NormalizedName":  brand.NormalizedName,
		"Description":     brand.Description,
		"WebsiteURL":      brand.WebsiteURL,
		"LogoURL":         brand.LogoURL,
		"CountryOfOrigin": brand.CountryOfOrigin,
		"EstablishedDate": brand.EstablishedDate,
		"TotalLocations":  brand.TotalLocations,
		"RegionsPresent":  brand.RegionsPresent,
		"Rating":          brand.Rating,
		"Wins":            brand.Wins,
		"Losses":          brand.Losses,
		"Ties":            brand.Ties,
		"RatingTrend":     brand.RatingTrend,
		"RankTrend":       brand.RankTrend,
	}).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

// updateMetadata writes every descriptive field back but leaves the rating
// and counters alone, those belong to the rating engine.
func (brand *Brand) updateMetadata(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Brand").SetMap(squirrel.Eq{
		"Name":            brand.Name,
		"NormalizedName":  brand.NormalizedName,
		"Description":     brand.Description,
		"WebsiteURL":      brand.WebsiteURL,
		"LogoURL":         brand.LogoURL,
		"CountryOfOrigin": brand.CountryOfOrigin,
		"EstablishedDate": brand.EstablishedDate,
		"TotalLocations":  brand.TotalLocations,
		"RegionsPresent":  brand.RegionsPresent,
	}).Where("Brand.ID = ?", brand.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (brand *Brand) updateRating(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Brand").SetMap(squirrel.Eq{
		"Rating": brand.Rating,
		"Wins":   brand.Wins,
		"Losses": brand.Losses,
		"Ties":   brand.Ties,
	}).Where("Brand.ID = ?", brand.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func (brand *Brand) updateTrends(tx *sqlx.Tx) error {
	query, args, err := squirrel.Update("Brand").SetMap(squirrel.Eq{
		"RatingTrend": brand.RatingTrend,
		"RankTrend":   brand.RankTrend,
	}).Where("Brand.ID = ?", brand.ID).ToSql()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(query, args...); err != nil {
		return err
	}

	return nil
}

func getBrandByID(tx *sqlx.Tx, id util.UUIDAsBlob) (Brand, error) {
	var ret Brand
	query := `SELECT * FROM Brand WHERE Brand.ID = ? LIMIT 1`
	if err := tx.Get(&ret, query, id); err != nil {
		return Brand{}, err
	}

	return ret, nil
}

func getBrandByNormalizedName(tx *sqlx.Tx, normalized string) (Brand, error) {
	var ret Brand
	query := `SELECT * FROM Brand WHERE Brand.NormalizedName = ? LIMIT 1`
	if err := tx.Get(&ret, query, normalized); err != nil {
		return Brand{}, err
	}

	return ret, nil
}

func getBrandCount(tx *sqlx.Tx) (int, error) {
	var ret int
	if err := tx.Get(&ret, `SELECT COUNT(*) FROM Brand`); err != nil {
		return 0, err
	}

	return ret, nil
}
