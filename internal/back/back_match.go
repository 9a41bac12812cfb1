package back

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/seanzhanng/teaelo/internal/util"
)

// RecordMatch applies one vote between two brands: it loads both ratings
// from a single consistent snapshot, computes the new ratings with the
// logistic Elo formula, updates the win/loss/tie counters, and persists
// everything (including the match history row) in one transaction.
// Either everything is committed or nothing is.
//
// RecordMatch is not idempotent: submitting the same pairing twice records
// two independent matches. On ErrConflict the call was not committed and has
// already been retried internally, the caller may retry again from scratch.
func (b *Back) RecordMatch(
	winnerID, loserID util.UUIDAsBlob,
	isTie bool,
	loc MatchLocation,
) (MatchResult, error) {
	if winnerID == loserID {
		return MatchResult{}, fmt.Errorf("%w: a brand cannot play against itself", ErrInvalidMatch)
	}

	var ret MatchResult
	if err := b.retriableTransaction(func(tx *sqlx.Tx) (err error) {
		ret, err = b.recordMatch(tx, winnerID, loserID, isTie, loc)
		return err
	}); err != nil {
		return MatchResult{}, err
	}

	log.Printf(
		"info: recorded match %s vs %s (tie: %t, Δ %+.2f)",
		ret.WinnerID, ret.LoserID, isTie, ret.WinnerRatingChange,
	)

	return ret, nil
}

func (b *Back) recordMatch(
	tx *sqlx.Tx,
	winnerID, loserID util.UUIDAsBlob,
	isTie bool,
	loc MatchLocation,
) (MatchResult, error) {
	winner, err := getBrandByID(tx, winnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchResult{}, fmt.Errorf("%w: %s", ErrBrandNotFound, winnerID)
	} else if err != nil {
		return MatchResult{}, err
	}

	loser, err := getBrandByID(tx, loserID)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchResult{}, fmt.Errorf("%w: %s", ErrBrandNotFound, loserID)
	} else if err != nil {
		return MatchResult{}, err
	}

	// The history row captures the pre-update pair before we touch anything.
	match := newMatch(winner, loser, isTie, loc)

	newWinnerRating, newLoserRating := newRatings(b.kFactor(), winner.Rating, loser.Rating, isTie)
	match.WinnerRatingAfter = newWinnerRating
	match.LoserRatingAfter = newLoserRating

	ret := MatchResult{
		WinnerID:           winner.ID,
		WinnerNewRating:    newWinnerRating,
		WinnerRatingChange: newWinnerRating - winner.Rating,

		LoserID:           loser.ID,
		LoserNewRating:    newLoserRating,
		LoserRatingChange: newLoserRating - loser.Rating,

		IsTie: isTie,
	}

	winner.Rating = newWinnerRating
	loser.Rating = newLoserRating

	if isTie {
		winner.Ties++
		loser.Ties++
	} else {
		winner.Wins++
		loser.Losses++
	}

	if err := winner.updateRating(tx); err != nil {
		return MatchResult{}, err
	}

	if err := loser.updateRating(tx); err != nil {
		return MatchResult{}, err
	}

	if err := match.insert(tx); err != nil {
		return MatchResult{}, err
	}

	return ret, nil
}
