package back // nolint:testpackage

import (
	"errors"
	"io/ioutil"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/seanzhanng/teaelo/internal/config"
	"github.com/seanzhanng/teaelo/internal/util"
)

func TestRecordMatchEvenPairing(t *testing.T) {
	back := createFixturedTestBack(t)
	winner, loser := getTestPair(t, back, "Chatime", "The Alley")

	result, err := back.RecordMatch(winner.ID, loser.ID, false, MatchLocation{Country: "CA", City: "Waterloo"})
	if err != nil {
		t.Fatal(err)
	}

	if result.WinnerNewRating != 1216 || result.LoserNewRating != 1184 {
		t.Errorf(
			"expected 1216/1184, got %f/%f",
			result.WinnerNewRating, result.LoserNewRating,
		)
	}
	if result.WinnerRatingChange != 16 || result.LoserRatingChange != -16 {
		t.Errorf(
			"expected +16/-16, got %f/%f",
			result.WinnerRatingChange, result.LoserRatingChange,
		)
	}

	winner, loser = getTestPair(t, back, "Chatime", "The Alley")
	if winner.Rating != 1216 || loser.Rating != 1184 {
		t.Errorf("persisted ratings do not match result: %f/%f", winner.Rating, loser.Rating)
	}
	if winner.Wins != 1 || winner.Losses != 0 || winner.Ties != 0 {
		t.Errorf("bad winner counters: %d/%d/%d", winner.Wins, winner.Losses, winner.Ties)
	}
	if loser.Wins != 0 || loser.Losses != 1 || loser.Ties != 0 {
		t.Errorf("bad loser counters: %d/%d/%d", loser.Wins, loser.Losses, loser.Ties)
	}
}

func TestRecordMatchTieUpdatesBothTies(t *testing.T) {
	back := createFixturedTestBack(t)
	a, b := getTestPair(t, back, "Chatime", "The Alley")

	result, err := back.RecordMatch(a.ID, b.ID, true, MatchLocation{})
	if err != nil {
		t.Fatal(err)
	}

	if result.WinnerRatingChange != 0 || result.LoserRatingChange != 0 {
		t.Errorf(
			"a tie between equal ratings must not move them, got %f/%f",
			result.WinnerRatingChange, result.LoserRatingChange,
		)
	}

	a, b = getTestPair(t, back, "Chatime", "The Alley")
	if a.Ties != 1 || b.Ties != 1 || a.Wins != 0 || b.Losses != 0 {
		t.Errorf("expected one tie on both sides, got %+v %+v", a, b)
	}
}

func TestRecordMatchSelfPairing(t *testing.T) {
	back := createFixturedTestBack(t)
	a, _ := getTestPair(t, back, "Chatime", "The Alley")

	if _, err := back.RecordMatch(a.ID, a.ID, false, MatchLocation{}); !errors.Is(err, ErrInvalidMatch) {
		t.Errorf("expected ErrInvalidMatch, got %v", err)
	}

	// Nothing was written.
	a, _ = getTestPair(t, back, "Chatime", "The Alley")
	if a.Wins != 0 || a.Losses != 0 || a.Ties != 0 || a.Rating != 1200 {
		t.Errorf("self pairing mutated state: %+v", a)
	}
}

func TestRecordMatchUnknownBrand(t *testing.T) {
	back := createFixturedTestBack(t)
	a, _ := getTestPair(t, back, "Chatime", "The Alley")

	_, err := back.RecordMatch(a.ID, util.NewUUIDAsBlob(), false, MatchLocation{})
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("expected ErrBrandNotFound, got %v", err)
	}
	_, err = back.RecordMatch(util.NewUUIDAsBlob(), a.ID, false, MatchLocation{})
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("expected ErrBrandNotFound, got %v", err)
	}
}

func TestRecordMatchWritesHistory(t *testing.T) {
	back := createFixturedTestBack(t)
	a, b := getTestPair(t, back, "Chatime", "The Alley")

	if _, err := back.RecordMatch(a.ID, b.ID, false, MatchLocation{Country: "TW"}); err != nil {
		t.Fatal(err)
	}
	if _, err := back.RecordMatch(b.ID, a.ID, false, MatchLocation{}); err != nil {
		t.Fatal(err)
	}

	var matches []Match
	if err := back.transaction(func(tx *sqlx.Tx) (err error) {
		matches, err = getMatchesSortedByDate(tx)
		return err
	}); err != nil {
		t.Fatal(err)
	}

	// Two submissions are two independent match events, never deduplicated.
	if len(matches) != 2 {
		t.Fatalf("expected 2 match rows, got %d", len(matches))
	}

	first := matches[0]
	if first.WinnerRatingBefore != 1200 || first.WinnerRatingAfter != 1216 {
		t.Errorf("bad history ratings: %+v", first)
	}
	if first.LocationCountry.String != "TW" {
		t.Errorf("expected location to be persisted, got %+v", first.LocationCountry)
	}
}

func TestRecordMatchReadAfterWrite(t *testing.T) {
	back := createFixturedTestBack(t)
	a, b := getTestPair(t, back, "Chatime", "The Alley")

	if _, err := back.RecordMatch(a.ID, b.ID, false, MatchLocation{}); err != nil {
		t.Fatal(err)
	}

	// A leaderboard read right after the write must reflect it.
	leaderboard, err := back.GetLeaderboard(10, 0, "")
	if err != nil {
		t.Fatal(err)
	}

	if leaderboard[0].ID != a.ID || leaderboard[0].Rank != 1 {
		t.Errorf("expected the winner on top, got %+v", leaderboard[0])
	}
	if leaderboard[0].Rating != 1216 {
		t.Errorf("leaderboard does not reflect the write: %f", leaderboard[0].Rating)
	}
}

// TestRecordMatchConcurrent hammers a single pairing from many goroutines
// and checks the final state is consistent with some serial ordering: the
// total rating mass is conserved and every vote is accounted for.
func TestRecordMatchConcurrent(t *testing.T) {
	back := createFixturedTestBack(t)
	a, b := getTestPair(t, back, "Chatime", "The Alley")

	const n = 20

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			winnerID, loserID := a.ID, b.ID
			if i%2 == 0 {
				winnerID, loserID = b.ID, a.ID
			}

			if _, err := back.RecordMatch(winnerID, loserID, false, MatchLocation{}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatal(err)
	}

	a, b = getTestPair(t, back, "Chatime", "The Alley")

	if total := (a.Rating - 1200) + (b.Rating - 1200); math.Abs(total) > 1e-6 {
		t.Errorf("rating mass not conserved across concurrent votes: leaked %g", total)
	}
	if played := a.Wins + a.Losses; played != n {
		t.Errorf("expected %d matches on brand A, got %d", n, played)
	}
	if played := b.Wins + b.Losses; played != n {
		t.Errorf("expected %d matches on brand B, got %d", n, played)
	}
	if a.Wins != b.Losses || a.Losses != b.Wins {
		t.Errorf("counters do not mirror: %+v vs %+v", a, b)
	}
}

func getTestPair(t *testing.T, b *Back, nameA, nameB string) (Brand, Brand) {
	t.Helper()

	var brandA, brandB Brand
	if err := b.transaction(func(tx *sqlx.Tx) (err error) {
		if brandA, err = getBrandByNormalizedName(tx, util.NormalizeBrandName(nameA)); err != nil {
			return err
		}
		brandB, err = getBrandByNormalizedName(tx, util.NormalizeBrandName(nameB))
		return err
	}); err != nil {
		t.Fatal(err)
	}

	return brandA, brandB
}

func createFixturedTestBack(t *testing.T) *Back {
	f, err := ioutil.TempFile("", "*.db")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() {
		os.Remove(path)
	})

	migrator, err := migrate.New(
		"file://../../resources/migrations",
		"sqlite3://"+path,
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatal(err)
	}
	migrator.Close()

	back, err := New("sqlite3", path, &config.Config{
		KFactor:       DefaultKFactor,
		InitialRating: DefaultInitialRating,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := back.LoadFixtures(); err != nil {
		t.Fatal(err)
	}

	return back
}
