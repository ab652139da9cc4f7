package repository

import (
	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB.
// Writes made inside Atomic are staged and applied together on commit; a
// commit fails with ErrConflict when a user or sale it read changed meanwhile.
type MemoryRepo struct {
	mu      sync.RWMutex
	sales   map[int64]model.Sale  // key: saleID -> sale without bids
	bids    map[int64][]model.Bid // key: saleID -> bids in insertion order
	users   map[int64]model.User  // key: userID -> user
	byEmail map[string]int64      // key: lowercased email -> userID

	nextBidID  atomic.Int64
	nextUserID atomic.Int64
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		sales:   make(map[int64]model.Sale),
		bids:    make(map[int64][]model.Bid),
		users:   make(map[int64]model.User),
		byEmail: make(map[string]int64),
	}
}

// AddUser stores a user and returns it with its assigned id.
// This method is intended for seeding and tests.
func (r *MemoryRepo) AddUser(user model.User) model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.UserID == 0 {
		user.UserID = r.nextUserID.Add(1)
	} else if user.UserID > r.nextUserID.Load() {
		r.nextUserID.Store(user.UserID)
	}
	r.users[user.UserID] = user
	r.byEmail[normalizeEmail(user.Email)] = user.UserID
	return user
}

// AddSale stores a sale. Seller must reference a user added before.
// This method is intended for seeding and tests.
func (r *MemoryRepo) AddSale(sale model.Sale) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sale.Bids = nil
	sale.BidsLoaded = false
	r.sales[sale.SaleID] = *sale.Clone()
}

// Atomic runs fn against staged state and commits it if fn succeeds
func (r *MemoryRepo) Atomic(ctx context.Context, fn func(tx BidTx) error) error {
	tx := &memoryTx{
		repo:      r,
		userReads: make(map[int64]int64),
		saleReads: make(map[int64]int),
		users:     make(map[int64]model.User),
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return tx.commit()
}

// GetSale returns the sale with its bids, highest amount first
func (r *MemoryRepo) GetSale(ctx context.Context, saleID int64) (model.Sale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sale, err := r.loadSale(saleID)
	if err != nil {
		return model.Sale{}, err
	}
	return *sale, nil
}

// GetUserByIdentity returns the user registered with the given email
func (r *MemoryRepo) GetUserByIdentity(ctx context.Context, identity string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, err := r.loadUser(identity)
	if err != nil {
		return model.User{}, err
	}
	return *user, nil
}

// loadSale builds a detached copy of the sale. Caller must hold r.mu.
func (r *MemoryRepo) loadSale(saleID int64) (*model.Sale, error) {
	stored, ok := r.sales[saleID]
	if !ok {
		return nil, fmt.Errorf("load sale %d: %w", saleID, biddingerrors.ErrSaleNotFound)
	}

	sale := stored.Clone()
	if sale.Seller != nil {
		if seller, ok := r.users[sale.Seller.UserID]; ok {
			sale.Seller = &seller
		}
	}

	stage := r.bids[saleID]
	sale.Bids = make([]model.Bid, 0, len(stage))
	for _, b := range stage {
		b = b.Clone()
		if b.User != nil {
			if u, ok := r.users[b.User.UserID]; ok {
				b.User = &u
			}
		}
		sale.Bids = append(sale.Bids, b)
	}
	sort.SliceStable(sale.Bids, func(i, j int) bool { return sale.Bids[i].BidAmount > sale.Bids[j].BidAmount })
	sale.BidsLoaded = true

	return sale, nil
}

// loadUser returns a copy of the user. Caller must hold r.mu.
func (r *MemoryRepo) loadUser(identity string) (*model.User, error) {
	id, ok := r.byEmail[normalizeEmail(identity)]
	if !ok {
		return nil, fmt.Errorf("load user %q: %w", identity, biddingerrors.ErrUserNotFound)
	}
	user := r.users[id]
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type memoryTx struct {
	repo *MemoryRepo

	userReads map[int64]int64 // userID -> version seen
	saleReads map[int64]int   // saleID -> bid count seen

	bids  []model.Bid
	users map[int64]model.User
}

func (tx *memoryTx) LoadSaleWithBids(ctx context.Context, saleID int64) (*model.Sale, error) {
	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()

	sale, err := tx.repo.loadSale(saleID)
	if err != nil {
		return nil, err
	}
	tx.saleReads[saleID] = len(sale.Bids)
	return sale, nil
}

func (tx *memoryTx) LoadUserByIdentity(ctx context.Context, identity string) (*model.User, error) {
	tx.repo.mu.RLock()
	defer tx.repo.mu.RUnlock()

	user, err := tx.repo.loadUser(identity)
	if err != nil {
		return nil, err
	}
	tx.userReads[user.UserID] = user.Version
	return user, nil
}

func (tx *memoryTx) AppendBid(ctx context.Context, bid *model.Bid) error {
	if bid.User == nil {
		return fmt.Errorf("append bid for sale %d: %w", bid.SaleID, biddingerrors.ErrMissingUser)
	}
	bid.BidID = tx.repo.nextBidID.Add(1)
	tx.bids = append(tx.bids, bid.Clone())
	return nil
}

func (tx *memoryTx) SaveUser(ctx context.Context, user *model.User) error {
	if user.Credit < 0 {
		return fmt.Errorf("save user %d: negative credit %d", user.UserID, user.Credit)
	}
	tx.users[user.UserID] = *user
	return nil
}

func (tx *memoryTx) commit() error {
	r := tx.repo
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, seen := range tx.userReads {
		if r.users[id].Version != seen {
			return fmt.Errorf("commit user %d: %w", id, biddingerrors.ErrConflict)
		}
	}
	for id, seen := range tx.saleReads {
		if len(r.bids[id]) != seen {
			return fmt.Errorf("commit sale %d: %w", id, biddingerrors.ErrConflict)
		}
	}
	for _, b := range tx.bids {
		if _, ok := r.sales[b.SaleID]; !ok {
			return fmt.Errorf("commit bid: sale %d: %w", b.SaleID, biddingerrors.ErrSaleNotFound)
		}
	}
	for id := range tx.users {
		if _, ok := r.users[id]; !ok {
			return fmt.Errorf("commit user %d: %w", id, biddingerrors.ErrUserNotFound)
		}
	}

	for _, b := range tx.bids {
		r.bids[b.SaleID] = append(r.bids[b.SaleID], b)
	}
	for id, u := range tx.users {
		u.Version = r.users[id].Version + 1
		r.users[id] = u
		r.byEmail[normalizeEmail(u.Email)] = id
	}
	return nil
}
