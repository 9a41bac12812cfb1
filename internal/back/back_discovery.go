package back

import (
	"database/sql"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/seanzhanng/teaelo/internal/util"
)

// A Place is one raw storefront record from a places directory.
type Place struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Country string   `json:"country"`
	City    string   `json:"city"`
	Types   []string `json:"types"`
}

// DiscoverStores turns raw storefront records into brands: known place ids
// short-circuit to their brand, new stores have their name cleaned and
// matched against existing brands, and stores of an unheard-of brand create
// it, unrated. Returns every brand the given places mapped to, ranked.
func (b *Back) DiscoverStores(places []Place) ([]RankedBrand, error) {
	seen := map[util.UUIDAsBlob]struct{}{}
	var ids []util.UUIDAsBlob

	if err := b.retriableTransaction(func(tx *sqlx.Tx) error {
		seen = map[util.UUIDAsBlob]struct{}{}
		ids = ids[:0]

		for _, place := range places {
			brandID, err := b.discoverStore(tx, place)
			if err != nil {
				return err
			}

			if _, ok := seen[brandID]; !ok {
				seen[brandID] = struct{}{}
				ids = append(ids, brandID)
			}
		}

		return nil
	}); err != nil {
		return nil, err
	}

	out := make([]RankedBrand, 0, len(ids))
	for _, id := range ids {
		brand, err := b.GetBrand(id)
		if err != nil {
			return nil, err
		}
		out = append(out, brand)
	}

	return out, nil
}

func (b *Back) discoverStore(tx *sqlx.Tx, place Place) (util.UUIDAsBlob, error) {
	if place.PlaceID == "" || place.Name == "" {
		return util.UUIDAsBlob{}, util.ErrPublic("a place needs at least a place_id and a name")
	}

	// Seen this storefront before, nothing to learn.
	if store, err := getStoreLocationByPlaceID(tx, place.PlaceID); err == nil {
		return store.BrandID, nil
	} else if !errors.Is(err, sql.ErrNoRows) {
		return util.UUIDAsBlob{}, err
	}

	cleaned := util.CleanStoreName(place.Name, place.Types)

	brand, err := getBrandByNormalizedName(tx, util.NormalizeBrandName(cleaned))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		brand = NewBrand(cleaned, b.initialRating())
		if place.Country != "" {
			brand.RegionsPresent = util.StringArrayAsJSON{place.Country}
		}
		brand.TotalLocations = 1

		if err := brand.insert(tx); err != nil {
			return util.UUIDAsBlob{}, err
		}

		log.Printf("info: discovered new brand %s (from %q)", brand.Name, place.Name)
	case err != nil:
		return util.UUIDAsBlob{}, err
	default:
		if place.Country != "" && !brand.RegionsPresent.Contains(place.Country) {
			brand.RegionsPresent = append(brand.RegionsPresent, place.Country)
		}
		brand.TotalLocations++

		if err := brand.updateMetadata(tx); err != nil {
			return util.UUIDAsBlob{}, err
		}
	}

	store := newStoreLocation(place.PlaceID, brand.ID, place.Country, place.City)
	if err := store.insert(tx); err != nil {
		return util.UUIDAsBlob{}, err
	}

	return brand.ID, nil
}
