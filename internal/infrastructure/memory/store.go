// Package memory は単一プロセス向けのインメモリ実装を提供する
// トランザクションは1つずつ直列に実行され、書き込みはコミットまで複製上に保持される
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

var (
	ErrTxDone     = errors.New("トランザクションは既に終了しています")
	ErrTxRequired = errors.New("トランザクションが必要です")
	ErrForeignTx  = errors.New("別のストアのトランザクションです")
)

type claimKey struct {
	areaID string
	day    time.Time
}

type state struct {
	spaces       map[string]*coworking.Space
	areas        map[string]*area.Area
	reservations map[string]*reservation.Reservation
	claims       map[claimKey]string
}

func newState() *state {
	return &state{
		spaces:       make(map[string]*coworking.Space),
		areas:        make(map[string]*area.Area),
		reservations: make(map[string]*reservation.Reservation),
		claims:       make(map[claimKey]string),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.spaces {
		c.spaces[k] = cloneSpace(v)
	}
	for k, v := range st.areas {
		c.areas[k] = cloneArea(v)
	}
	for k, v := range st.reservations {
		c.reservations[k] = cloneReservation(v)
	}
	for k, v := range st.claims {
		c.claims[k] = v
	}
	return c
}

// Store はインメモリのデータストア兼トランザクションマネージャ
type Store struct {
	txSlot chan struct{}
	mu     sync.RWMutex
	state  *state
	newID  func() string
}

func NewStore() *Store {
	return &Store{txSlot: make(chan struct{}, 1), state: newState(), newID: uuid.NewString}
}

// acquire は実行枠を確保する。ctx が終われば待機をやめる
func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.txSlot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.txSlot
}

// Begin はトランザクションを開始する。実行中のトランザクションがあれば終了を待つ
func (s *Store) Begin(ctx context.Context) (transaction.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	staged := s.state.clone()
	s.mu.RUnlock()
	return &Tx{store: s, staged: staged}, nil
}

// Tx はインメモリのトランザクション
type Tx struct {
	store  *Store
	staged *state
	done   bool
}

func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.store.mu.Lock()
	t.store.state = t.staged
	t.store.mu.Unlock()
	t.finish()
	return nil
}

func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.staged = nil
	t.store.release()
}

// read は tx があればその複製、なければコミット済みの状態を読む
func (s *Store) read(tx transaction.Tx, fn func(st *state) error) error {
	if tx != nil {
		st, err := s.staged(tx)
		if err != nil {
			return err
		}
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// write は tx の複製に書き込む
func (s *Store) write(tx transaction.Tx, fn func(st *state) error) error {
	if tx == nil {
		return ErrTxRequired
	}
	st, err := s.staged(tx)
	if err != nil {
		return err
	}
	return fn(st)
}

// autoCommit はトランザクション外の単発の書き込みを行う
func (s *Store) autoCommit(ctx context.Context, fn func(st *state) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func (s *Store) staged(tx transaction.Tx) (*state, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, ErrForeignTx
	}
	if t.done {
		return nil, ErrTxDone
	}
	return t.staged, nil
}

func cloneSpace(sp *coworking.Space) *coworking.Space {
	c := *sp
	return &c
}

func cloneArea(a *area.Area) *area.Area {
	c := *a
	return &c
}

func cloneReservation(r *reservation.Reservation) *reservation.Reservation {
	c := *r
	c.Details = append([]reservation.Detail(nil), r.Details...)
	return &c
}
