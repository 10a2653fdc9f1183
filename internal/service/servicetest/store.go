// Package servicetest provides an in-memory backing store for exercising the
// workflows end to end without Postgres. The ForUpdate reads take a per-row
// lock held until the unit of work ends, as SELECT ... FOR UPDATE does, and a
// failed unit of work reverts only the rows it wrote. Units touching disjoint
// rows run concurrently, so the concurrency tests depend on the workflows
// locking the rows they check.
package servicetest

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/betstream/internal/domain"
	"github.com/GlebRadaev/betstream/pkg/contracts/events"
)

type txKey struct{}

type state struct {
	wallets     map[int]domain.Wallet
	deposits    map[int]domain.Deposit
	withdrawals map[int]domain.Withdrawal
	challenges  map[int]domain.Challenge
	bets        map[int]domain.Bet
	events      []Event
	nextID      int
}

// unit is a running unit of work: the row locks it holds and how to revert
// its writes.
type unit struct {
	held []*sync.Mutex
	undo []func()
}

// Event is a recorded outbox entry.
type Event struct {
	Topic string
	events.LedgerEvent
	seq int
}

type Store struct {
	mu   sync.Mutex
	st   state
	rows map[string]*sync.Mutex
	now  func() time.Time
}

func NewStore() *Store {
	return &Store{
		st: state{
			wallets:     map[int]domain.Wallet{},
			deposits:    map[int]domain.Deposit{},
			withdrawals: map[int]domain.Withdrawal{},
			challenges:  map[int]domain.Challenge{},
			bets:        map[int]domain.Bet{},
		},
		rows: map[string]*sync.Mutex{},
		now:  time.Now,
	}
}

// Begin implements pg.TXManager. Nested calls join the outer unit of work.
func (s *Store) Begin(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*unit); ok {
		return fn(ctx)
	}

	u := &unit{}
	err := fn(context.WithValue(ctx, txKey{}, u))
	if err != nil {
		s.mu.Lock()
		for i := len(u.undo) - 1; i >= 0; i-- {
			u.undo[i]()
		}
		s.mu.Unlock()
	}
	for i := len(u.held) - 1; i >= 0; i-- {
		u.held[i].Unlock()
	}
	return err
}

// lockRow blocks until the unit of work in ctx holds the lock of key. Outside
// a unit of work it is a no-op.
func (s *Store) lockRow(ctx context.Context, key string) {
	u, ok := ctx.Value(txKey{}).(*unit)
	if !ok {
		return
	}
	s.mu.Lock()
	row, ok := s.rows[key]
	if !ok {
		row = &sync.Mutex{}
		s.rows[key] = row
	}
	s.mu.Unlock()

	for _, held := range u.held {
		if held == row {
			return
		}
	}
	row.Lock()
	u.held = append(u.held, row)
}

// record registers how to revert a write. Callers hold s.mu.
func (s *Store) record(ctx context.Context, undo func()) {
	if u, ok := ctx.Value(txKey{}).(*unit); ok {
		u.undo = append(u.undo, undo)
	}
}

// revert returns the undo of a write to m[k].
func revert[K comparable, V any](m map[K]V, k K) func() {
	prev, existed := m[k]
	return func() {
		if existed {
			m[k] = prev
		} else {
			delete(m, k)
		}
	}
}

func rowKey(table string, id int) string {
	return table + ":" + strconv.Itoa(id)
}

func (s *Store) id() int {
	s.st.nextID++
	return s.st.nextID
}

// SeedWallet stores a wallet with the given amounts.
func (s *Store) SeedWallet(userID int, balance, locked string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.wallets[userID] = domain.Wallet{
		ID:            userID,
		UserID:        userID,
		Balance:       decimal.RequireFromString(balance),
		LockedBalance: decimal.RequireFromString(locked),
		Currency:      domain.DefaultCurrency,
	}
}

// Wallet returns a copy of the stored wallet of userID.
func (s *Store) Wallet(userID int) domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.wallets[userID]
}

func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.st.events...)
}

func (s *Store) Wallets() *Wallets         { return &Wallets{s} }
func (s *Store) Deposits() *Deposits       { return &Deposits{s} }
func (s *Store) Withdrawals() *Withdrawals { return &Withdrawals{s} }
func (s *Store) Challenges() *Challenges   { return &Challenges{s} }
func (s *Store) Bets() *Bets               { return &Bets{s} }
func (s *Store) Outbox() *Outbox           { return &Outbox{s} }

type Wallets struct{ s *Store }

func (r *Wallets) GetByUserID(_ context.Context, userID int) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.st.wallets[userID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *Wallets) GetByUserIDForUpdate(ctx context.Context, userID int) (*domain.Wallet, error) {
	r.s.lockRow(ctx, rowKey("wallets", userID))
	return r.GetByUserID(ctx, userID)
}

func (r *Wallets) GetOrCreate(ctx context.Context, userID int, currency string) (*domain.Wallet, error) {
	r.s.lockRow(ctx, rowKey("wallets", userID))
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.st.wallets[userID]
	if !ok {
		r.s.record(ctx, revert(r.s.st.wallets, userID))
		w = domain.Wallet{ID: userID, UserID: userID, Currency: currency, UpdatedAt: r.s.now()}
		r.s.st.wallets[userID] = w
	}
	return &w, nil
}

func (r *Wallets) Update(ctx context.Context, wallet *domain.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.wallets[wallet.UserID]; !ok {
		return domain.ErrNotFound
	}
	r.s.record(ctx, revert(r.s.st.wallets, wallet.UserID))
	wallet.UpdatedAt = r.s.now()
	r.s.st.wallets[wallet.UserID] = *wallet
	return nil
}

type Deposits struct{ s *Store }

func (r *Deposits) Create(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	deposit.ID = r.s.id()
	r.s.record(ctx, revert(r.s.st.deposits, deposit.ID))
	deposit.CreatedAt = r.s.now()
	r.s.st.deposits[deposit.ID] = *deposit
	return deposit, nil
}

func (r *Deposits) GetByID(_ context.Context, id int) (*domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.st.deposits[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *Deposits) GetByIDForUpdate(ctx context.Context, id int) (*domain.Deposit, error) {
	r.s.lockRow(ctx, rowKey("deposits", id))
	return r.GetByID(ctx, id)
}

func (r *Deposits) UpdateStatus(ctx context.Context, deposit *domain.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record(ctx, revert(r.s.st.deposits, deposit.ID))
	stored := r.s.st.deposits[deposit.ID]
	stored.Status, stored.ProcessedAt = deposit.Status, deposit.ProcessedAt
	r.s.st.deposits[deposit.ID] = stored
	return nil
}

func (r *Deposits) ListByUserID(_ context.Context, userID int) ([]domain.Deposit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Deposit
	for _, d := range r.s.st.deposits {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type Withdrawals struct{ s *Store }

func (r *Withdrawals) CreateWithdrawal(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	withdrawal.ID = r.s.id()
	r.s.record(ctx, revert(r.s.st.withdrawals, withdrawal.ID))
	withdrawal.CreatedAt = r.s.now()
	r.s.st.withdrawals[withdrawal.ID] = *withdrawal
	return withdrawal, nil
}

func (r *Withdrawals) GetByID(_ context.Context, id int) (*domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.st.withdrawals[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *Withdrawals) GetByIDForUpdate(ctx context.Context, id int) (*domain.Withdrawal, error) {
	r.s.lockRow(ctx, rowKey("withdrawals", id))
	return r.GetByID(ctx, id)
}

func (r *Withdrawals) UpdateStatus(ctx context.Context, withdrawal *domain.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record(ctx, revert(r.s.st.withdrawals, withdrawal.ID))
	r.s.st.withdrawals[withdrawal.ID] = *withdrawal
	return nil
}

func (r *Withdrawals) GetWithdrawalsByUserID(_ context.Context, userID int) ([]domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Withdrawal
	for _, w := range r.s.st.withdrawals {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type Challenges struct{ s *Store }

func (r *Challenges) Create(ctx context.Context, challenge *domain.Challenge) (*domain.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	challenge.ID = r.s.id()
	r.s.record(ctx, revert(r.s.st.challenges, challenge.ID))
	challenge.CreatedAt = r.s.now()
	challenge.UpdatedAt = challenge.CreatedAt
	r.s.st.challenges[challenge.ID] = *challenge
	return challenge, nil
}

func (r *Challenges) GetByID(_ context.Context, id int) (*domain.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.challenges[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *Challenges) GetByIDForUpdate(ctx context.Context, id int) (*domain.Challenge, error) {
	r.s.lockRow(ctx, rowKey("challenges", id))
	return r.GetByID(ctx, id)
}

func (r *Challenges) Update(ctx context.Context, challenge *domain.Challenge) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record(ctx, revert(r.s.st.challenges, challenge.ID))
	challenge.UpdatedAt = r.s.now()
	r.s.st.challenges[challenge.ID] = *challenge
	return nil
}

func (r *Challenges) List(_ context.Context, filter domain.ChallengeFilter) ([]domain.Challenge, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	var out []domain.Challenge
	for _, c := range r.s.st.challenges {
		switch {
		case filter.Status != "" && c.Status != filter.Status:
			continue
		case filter.OpenOnly && (c.Status != domain.ChallengeOpen || c.Expired(now)):
			continue
		case filter.Game != "" && !strings.Contains(strings.ToLower(c.Game), strings.ToLower(filter.Game)):
			continue
		case filter.UserID != 0 && !c.IsParticipant(filter.UserID):
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type Bets struct{ s *Store }

func (r *Bets) Create(ctx context.Context, bet *domain.Bet) (*domain.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bet.ID = r.s.id()
	r.s.record(ctx, revert(r.s.st.bets, bet.ID))
	bet.CreatedAt = r.s.now()
	r.s.st.bets[bet.ID] = *bet
	return bet, nil
}

func (r *Bets) ListByUserID(_ context.Context, userID int, status domain.BetStatus) ([]domain.Bet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Bet
	for _, b := range r.s.st.bets {
		if b.UserID == userID && (status == "" || b.Status == status) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

type Outbox struct{ s *Store }

func (r *Outbox) Add(ctx context.Context, topic string, event events.LedgerEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seq := r.s.id()
	r.s.st.events = append(r.s.st.events, Event{Topic: topic, LedgerEvent: event, seq: seq})
	r.s.record(ctx, func() {
		kept := r.s.st.events[:0]
		for _, e := range r.s.st.events {
			if e.seq != seq {
				kept = append(kept, e)
			}
		}
		r.s.st.events = kept
	})
	return nil
}

// Matches is a fixed GameMatch catalog.
type Matches map[int]*domain.GameMatch

func (m Matches) GetMatch(_ context.Context, id int) (*domain.GameMatch, error) {
	match, ok := m[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return match, nil
}
