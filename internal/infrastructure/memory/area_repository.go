package memory

import (
	"context"
	"sort"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

type AreaRepository struct {
	store *Store
}

func NewAreaRepository(store *Store) *AreaRepository {
	return &AreaRepository{store: store}
}

func (r *AreaRepository) Create(ctx context.Context, tx transaction.Tx, a *area.Area) error {
	return r.store.write(tx, func(st *state) error {
		if a.ID == "" {
			a.ID = r.store.newID()
		}
		st.areas[a.ID] = cloneArea(a)
		return nil
	})
}

func (r *AreaRepository) Update(ctx context.Context, tx transaction.Tx, a *area.Area) error {
	return r.store.write(tx, func(st *state) error {
		if _, ok := st.areas[a.ID]; !ok {
			return area.ErrAreaNotFound
		}
		st.areas[a.ID] = cloneArea(a)
		return nil
	})
}

func (r *AreaRepository) GetByID(ctx context.Context, id string) (*area.Area, error) {
	var found *area.Area
	err := r.store.read(nil, func(st *state) error {
		a, ok := st.areas[id]
		if !ok {
			return area.ErrAreaNotFound
		}
		found = cloneArea(a)
		return nil
	})
	return found, err
}

func (r *AreaRepository) GetByIDs(ctx context.Context, ids []string) ([]*area.Area, error) {
	var areas []*area.Area
	err := r.store.read(nil, func(st *state) error {
		for _, id := range ids {
			if a, ok := st.areas[id]; ok {
				areas = append(areas, cloneArea(a))
			}
		}
		return nil
	})
	return areas, err
}

func (r *AreaRepository) GetBySpaceID(ctx context.Context, spaceID string) ([]*area.Area, error) {
	areas := make([]*area.Area, 0)
	err := r.store.read(nil, func(st *state) error {
		for _, a := range st.areas {
			if a.SpaceID == spaceID {
				areas = append(areas, cloneArea(a))
			}
		}
		return nil
	})
	sort.Slice(areas, func(i, j int) bool {
		if !areas[i].CreatedAt.Equal(areas[j].CreatedAt) {
			return areas[i].CreatedAt.Before(areas[j].CreatedAt)
		}
		return areas[i].ID < areas[j].ID
	})
	return areas, err
}

func (r *AreaRepository) SumCapacityBySpaceID(ctx context.Context, tx transaction.Tx, spaceID string) (int, error) {
	var total int
	err := r.store.write(tx, func(st *state) error {
		for _, a := range st.areas {
			if a.SpaceID == spaceID {
				total += a.Capacity
			}
		}
		return nil
	})
	return total, err
}
