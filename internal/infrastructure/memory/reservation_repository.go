package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

type ReservationRepository struct {
	store *Store
}

func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

// Create は予約とエリア日別の占有を登録する
// 既に占有されている日があれば何も書かずに UnavailableError を返す
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	return r.store.write(tx, func(st *state) error {
		var taken []string
		seen := make(map[string]bool)
		for _, areaID := range res.AreaIDs() {
			for _, d := range res.Period.EachDay() {
				if _, ok := st.claims[claimKey{areaID: areaID, day: d}]; ok && !seen[areaID] {
					seen[areaID] = true
					taken = append(taken, areaID)
				}
			}
		}
		if len(taken) > 0 {
			sort.Strings(taken)
			return &reservation.UnavailableError{AreaIDs: taken}
		}

		if res.ID == "" {
			res.ID = r.store.newID()
		}
		for _, areaID := range res.AreaIDs() {
			for _, d := range res.Period.EachDay() {
				st.claims[claimKey{areaID: areaID, day: d}] = res.ID
			}
		}
		st.reservations[res.ID] = cloneReservation(res)
		return nil
	})
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var found *reservation.Reservation
	err := r.store.read(nil, func(st *state) error {
		res, ok := st.reservations[id]
		if !ok {
			return reservation.ErrReservationNotFound
		}
		found = cloneReservation(res)
		return nil
	})
	return found, err
}

func (r *ReservationRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	var found *reservation.Reservation
	err := r.store.write(tx, func(st *state) error {
		res, ok := st.reservations[id]
		if !ok {
			return reservation.ErrReservationNotFound
		}
		found = cloneReservation(res)
		return nil
	})
	return found, err
}

func (r *ReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	var all []*reservation.Reservation
	err := r.store.read(nil, func(st *state) error {
		for _, res := range st.reservations {
			if res.UserID == userID {
				all = append(all, cloneReservation(res))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	result := make([]*reservation.Reservation, 0)
	if offset >= len(all) {
		return result, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return append(result, all[offset:end]...), nil
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, tx transaction.Tx, spaceID string, period reservation.DateRange) ([]*reservation.Reservation, error) {
	var found []*reservation.Reservation
	err := r.store.read(tx, func(st *state) error {
		for _, res := range st.reservations {
			if res.SpaceID == spaceID && res.Status.IsActive() && res.Period.Overlaps(period) {
				found = append(found, cloneReservation(res))
			}
		}
		return nil
	})
	sortByStart(found)
	return found, err
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	return r.store.write(tx, func(st *state) error {
		current, ok := st.reservations[res.ID]
		if !ok {
			return reservation.ErrReservationNotFound
		}
		current.Status = res.Status
		current.UpdatedAt = res.UpdatedAt
		return nil
	})
}

func (r *ReservationRepository) ReleaseAreaDays(ctx context.Context, tx transaction.Tx, reservationID string) error {
	return r.store.write(tx, func(st *state) error {
		for k, owner := range st.claims {
			if owner == reservationID {
				delete(st.claims, k)
			}
		}
		return nil
	})
}

func (r *ReservationRepository) FindConfirmedExpired(ctx context.Context, tx transaction.Tx, asOf time.Time) ([]*reservation.Reservation, error) {
	var found []*reservation.Reservation
	err := r.store.write(tx, func(st *state) error {
		for _, res := range st.reservations {
			if res.Status == reservation.StatusConfirmed && res.Period.End.Before(asOf) {
				found = append(found, cloneReservation(res))
			}
		}
		return nil
	})
	sortByStart(found)
	return found, err
}

func (r *ReservationRepository) CompleteBatch(ctx context.Context, tx transaction.Tx, ids []string, updatedAt time.Time) (int, error) {
	var n int
	err := r.store.write(tx, func(st *state) error {
		for _, id := range ids {
			res, ok := st.reservations[id]
			if !ok || res.Status != reservation.StatusConfirmed {
				continue
			}
			res.Status = reservation.StatusCompleted
			res.UpdatedAt = updatedAt
			n++
		}
		return nil
	})
	return n, err
}

func sortByStart(rs []*reservation.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].Period.Start.Equal(rs[j].Period.Start) {
			return rs[i].Period.Start.Before(rs[j].Period.Start)
		}
		return rs[i].ID < rs[j].ID
	})
}
