package back

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"

	"github.com/seanzhanng/teaelo/internal/util"
)

// BrandMetadata is the descriptive, non-rating half of a Brand as exposed to
// administrative callers. It is the document PATCHed by RFC 7386 merge
// patches: the rating, counters, and trends of a brand are deliberately not
// part of it.
type BrandMetadata struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	WebsiteURL      string   `json:"website_url"`
	LogoURL         string   `json:"logo_url"`
	CountryOfOrigin string   `json:"country_of_origin"`
	EstablishedDate string   `json:"established_date"`
	TotalLocations  int      `json:"total_locations"`
	RegionsPresent  []string `json:"regions_present"`
}

func (brand *Brand) metadata() BrandMetadata {
	var established string
	if brand.EstablishedDate.Valid {
		established = brand.EstablishedDate.Time.Time().Format("2006-01-02")
	}

	return BrandMetadata{
		Name:            brand.Name,
		Description:     brand.Description.String,
		WebsiteURL:      brand.WebsiteURL.String,
		LogoURL:         brand.LogoURL.String,
		CountryOfOrigin: brand.CountryOfOrigin.String,
		EstablishedDate: established,
		TotalLocations:  brand.TotalLocations,
		RegionsPresent:  brand.RegionsPresent.Slice(),
	}
}

func (brand *Brand) applyMetadata(meta BrandMetadata) error {
	if len(meta.Name) < 1 || len(meta.Name) > 64 {
		return util.ErrPublic("brand name must be between 1 and 64 characters")
	}

	brand.Name = meta.Name
	brand.NormalizedName = util.NormalizeBrandName(meta.Name)
	brand.Description = null.NewString(meta.Description, meta.Description != "")
	brand.WebsiteURL = null.NewString(meta.WebsiteURL, meta.WebsiteURL != "")
	brand.LogoURL = null.NewString(meta.LogoURL, meta.LogoURL != "")
	brand.CountryOfOrigin = null.NewString(meta.CountryOfOrigin, meta.CountryOfOrigin != "")
	brand.TotalLocations = meta.TotalLocations
	brand.RegionsPresent = util.StringArrayAsJSON(meta.RegionsPresent)

	if meta.EstablishedDate == "" {
		brand.EstablishedDate = util.NullTimeAsTimestamp{}
	} else {
		t, err := time.Parse("2006-01-02", meta.EstablishedDate)
		if err != nil {
			return util.ErrPublic("established_date must be a YYYY-MM-DD date")
		}
		brand.EstablishedDate = util.NewNullTimeAsTimestamp(t)
	}

	return nil
}

// CreateBrand registers a new, unrated brand.
func (b *Back) CreateBrand(meta BrandMetadata) (brand Brand, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		brand = NewBrand(meta.Name, b.initialRating())
		if err := brand.applyMetadata(meta); err != nil {
			return err
		}

		if _, err := getBrandByNormalizedName(tx, brand.NormalizedName); err == nil {
			return util.ErrPublic(fmt.Sprintf("the brand `%s` already exists", meta.Name))
		}

		return brand.insert(tx)
	}); err != nil {
		return Brand{}, err
	}

	log.Printf("info: created brand %s (%s)", brand.Name, brand.ID)

	return brand, nil
}

// PatchBrand applies an RFC 7386 merge patch to the metadata of a brand.
// Rating, counters, and trends cannot be reached through this path.
func (b *Back) PatchBrand(id util.UUIDAsBlob, patch []byte) (brand Brand, _ error) {
	if err := b.transaction(func(tx *sqlx.Tx) error {
		var err error
		brand, err = getBrandByID(tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrBrandNotFound, id)
		} else if err != nil {
			return err
		}

		original, err := json.Marshal(brand.metadata())
		if err != nil {
			return err
		}

		patched, err := jsonpatch.MergePatch(original, patch)
		if err != nil {
			return util.ErrPublic(fmt.Sprintf("invalid merge patch: %s", err))
		}

		var meta BrandMetadata
		if err := json.Unmarshal(patched, &meta); err != nil {
			return util.ErrPublic(fmt.Sprintf("invalid metadata document: %s", err))
		}

		if err := brand.applyMetadata(meta); err != nil {
			return err
		}

		return brand.updateMetadata(tx)
	}); err != nil {
		return Brand{}, err
	}

	return brand, nil
}

// DeleteBrand removes a brand along with its stores, snapshots, and matches.
func (b *Back) DeleteBrand(id util.UUIDAsBlob) error {
	return b.transaction(func(tx *sqlx.Tx) error {
		if _, err := getBrandByID(tx, id); errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrBrandNotFound, id)
		} else if err != nil {
			return err
		}

		queries := []struct {
			query string
			args  []interface{}
		}{
			{`DELETE FROM StoreLocation WHERE BrandID = ?`, []interface{}{id}},
			{`DELETE FROM BrandRatingHistory WHERE BrandID = ?`, []interface{}{id}},
			{`DELETE FROM Match WHERE WinnerID = ? OR LoserID = ?`, []interface{}{id, id}},
			{`DELETE FROM Brand WHERE ID = ?`, []interface{}{id}},
		}

		for _, q := range queries {
			if _, err := tx.Exec(q.query, q.args...); err != nil {
				return err
			}
		}

		log.Printf("info: deleted brand %s", id)

		return nil
	})
}
