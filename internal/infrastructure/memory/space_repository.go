package memory

import (
	"context"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

type SpaceRepository struct {
	store *Store
}

func NewSpaceRepository(store *Store) *SpaceRepository {
	return &SpaceRepository{store: store}
}

func (r *SpaceRepository) Create(ctx context.Context, sp *coworking.Space) error {
	return r.store.autoCommit(ctx, func(st *state) error {
		if sp.ID == "" {
			sp.ID = r.store.newID()
		}
		st.spaces[sp.ID] = cloneSpace(sp)
		return nil
	})
}

func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*coworking.Space, error) {
	var found *coworking.Space
	err := r.store.read(nil, func(st *state) error {
		sp, ok := st.spaces[id]
		if !ok {
			return coworking.ErrSpaceNotFound
		}
		found = cloneSpace(sp)
		return nil
	})
	return found, err
}

// GetForUpdate はトランザクションの複製から読む。トランザクション自体が直列なのでロックは不要
func (r *SpaceRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*coworking.Space, error) {
	var found *coworking.Space
	err := r.store.write(tx, func(st *state) error {
		sp, ok := st.spaces[id]
		if !ok {
			return coworking.ErrSpaceNotFound
		}
		found = cloneSpace(sp)
		return nil
	})
	return found, err
}

func (r *SpaceRepository) UpdateStatus(ctx context.Context, sp *coworking.Space) error {
	return r.store.autoCommit(ctx, func(st *state) error {
		current, ok := st.spaces[sp.ID]
		if !ok {
			return coworking.ErrSpaceNotFound
		}
		current.Status = sp.Status
		current.UpdatedAt = sp.UpdatedAt
		return nil
	})
}
