package back

import (
	"github.com/jmoiron/sqlx"
	"gopkg.in/guregu/null.v4"

	"github.com/seanzhanng/teaelo/internal/util"
)

// LoadFixtures seeds a handful of well-known brands for quick testing during
// development.
func (b *Back) LoadFixtures() error {
	fixtures := []struct {
		name, website, country string
		regions                []string
	}{
		{"Chatime", "https://chatime.com", "TW", []string{"TW", "CA", "AU"}},
		{"The Alley", "https://www.the-alley.ca", "TW", []string{"TW", "CA", "JP"}},
		{"CoCo Fresh Tea & Juice", "https://www.coco-tea.com", "TW", []string{"TW", "US", "CA"}},
		{"Gong cha", "https://gong-cha.com", "TW", []string{"TW", "US", "KR"}},
		{"Kung Fu Tea", "https://www.kungfutea.com", "US", []string{"US", "CA"}},
		{"Tiger Sugar", "https://tigersugar.com", "TW", []string{"TW", "US"}},
		{"Boba Guys", "https://www.bobaguys.com", "US", []string{"US"}},
		{"Machi Machi", "https://machimachi.com", "TW", []string{"TW", "CA"}},
	}

	return b.transaction(func(tx *sqlx.Tx) error {
		for _, v := range fixtures {
			brand := NewBrand(v.name, b.initialRating())
			brand.WebsiteURL = null.StringFrom(v.website)
			brand.CountryOfOrigin = null.StringFrom(v.country)
			brand.RegionsPresent = util.StringArrayAsJSON(v.regions)

			if err := brand.insert(tx); err != nil {
				return err
			}
		}

		return nil
	})
}
