// Package ledgerstore persists the booking ledger (C10) between process
// runs: a Redis-backed cache of the latest snapshot per term (spec §8's
// "the ledger must survive a process restart between faculty runs"), and
// an optional Postgres-backed durable history of every committed
// snapshot, adapted from the teacher's internal/repository pattern.
package ledgerstore

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/campustt/timetable-core/internal/domain"
	"github.com/campustt/timetable-core/internal/ledger"
	appErrors "github.com/campustt/timetable-core/pkg/errors"
)

// Snapshot is the serializable state of one term's booking ledger at a
// point in time.
type Snapshot struct {
	Term     domain.Term      `json:"term"`
	Bookings []ledger.Booking `json:"bookings"`
	Hash     string           `json:"hash"`
}

// BuildSnapshot captures `l`'s current bookings for `term` and stamps a
// content hash over the deterministically ordered payload. Two snapshots
// taken from the same sequence of Commit calls hash identically,
// regardless of process restarts in between — the idempotence property
// spec §8 tests.
func BuildSnapshot(term domain.Term, l *ledger.Ledger) (Snapshot, error) {
	bookings := l.Bookings()
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].SessionID < bookings[j].SessionID })

	snap := Snapshot{Term: term, Bookings: bookings}
	hash, err := hashBookings(term, bookings)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Hash = hash
	return snap, nil
}

// Verify recomputes the snapshot's content hash and reports whether it
// still matches the stored one, catching accidental mutation or a
// corrupted round-trip through Redis/Postgres.
func (s Snapshot) Verify() (bool, error) {
	want, err := hashBookings(s.Term, s.Bookings)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(s.Hash)) == 1, nil
}

// Restore replays a snapshot's bookings into a fresh ledger.Ledger, e.g.
// after a process restart picks the snapshot back up from Redis.
func Restore(snap Snapshot) *ledger.Ledger {
	l := ledger.New()
	byFaculty := map[string][]domain.Assignment{}
	order := []string{}
	res := &domain.Resources{Cohorts: map[domain.CohortID]domain.Cohort{}}
	for _, b := range snap.Bookings {
		if _, ok := res.Cohorts[b.CohortID]; !ok {
			res.Cohorts[b.CohortID] = domain.Cohort{ID: b.CohortID, Size: b.CohortSize}
		}
		if _, seen := byFaculty[b.Faculty]; !seen {
			order = append(order, b.Faculty)
		}
		byFaculty[b.Faculty] = append(byFaculty[b.Faculty], domain.Assignment{
			SessionID:      b.SessionID,
			Faculty:        b.Faculty,
			CohortID:       b.CohortID,
			CourseCode:     b.CourseCode,
			CanonicalGroup: b.Canonical,
			LecturerID:     b.LecturerID,
			RoomID:         b.RoomID,
			Day:            b.Day,
			Period:         b.Period,
			Term:           b.Term,
		})
	}
	for _, faculty := range order {
		l.Commit(faculty, res, byFaculty[faculty])
	}
	return l
}

func hashBookings(term domain.Term, bookings []ledger.Booking) (string, error) {
	payload, err := json.Marshal(struct {
		Term     domain.Term      `json:"term"`
		Bookings []ledger.Booking `json:"bookings"`
	}{Term: term, Bookings: bookings})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal ledger snapshot for hashing")
	}
	sum := blake2b.Sum256(payload)
	return fmt.Sprintf("%x", sum), nil
}
