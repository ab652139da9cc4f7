package bidding

import (
	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/events"
	model "auction-engine/internal/models"
	"auction-engine/internal/pricing"
	"auction-engine/internal/repository"
	"auction-engine/internal/salelock"
	"auction-engine/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultMaxAttempts = 3
	producerName       = "auction-engine"
)

// BidOutcome is the state after an accepted bid. Both values are detached
// copies: changing them never affects stored state.
type BidOutcome struct {
	Sale model.Sale
	User model.User
}

// BiddingService places bids and serves the related lookups
type BiddingService struct {
	repo        repository.AuctionDB
	locker      salelock.Locker
	validator   *Validator
	publisher   events.Publisher
	now         func() time.Time
	maxAttempts int
	lockWait    time.Duration
}

// Option customizes a BiddingService
type Option func(*BiddingService)

// WithLocker replaces the in-process per-sale lock
func WithLocker(l salelock.Locker) Option {
	return func(s *BiddingService) { s.locker = l }
}

// WithValidator replaces the default rule chain configuration
func WithValidator(v *Validator) Option {
	return func(s *BiddingService) { s.validator = v }
}

// WithPublisher sets where BidPlaced events go
func WithPublisher(p events.Publisher) Option {
	return func(s *BiddingService) { s.publisher = p }
}

// WithClock sets the clock used for default bid times
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// WithLockWait bounds how long PlaceBid waits for a busy sale. It does not
// limit the work done once the sale is held.
func WithLockWait(d time.Duration) Option {
	return func(s *BiddingService) { s.lockWait = d }
}

// WithMaxAttempts bounds how often a conflicting commit is retried
func WithMaxAttempts(n int) Option {
	return func(s *BiddingService) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:        repo,
		locker:      salelock.NewLocal(),
		validator:   NewValidator(false),
		publisher:   events.LogPublisher{},
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates a bid by the user behind identity and, if accepted,
// stores it together with the user's reduced credit. bidTime defaults to now.
// Bids on the same sale are serialized; a deadline or the lock wait limit
// reached while waiting for the sale yields biddingerrors.ErrBusy.
func (s *BiddingService) PlaceBid(ctx context.Context, saleID int64, identity string, amount int64, bidTime *time.Time) (BidOutcome, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return BidOutcome{}, fmt.Errorf("service: %w - empty bidder identity", biddingerrors.ErrMissingUser)
	}
	if amount <= 0 {
		return BidOutcome{}, fmt.Errorf("service: %w - non-positive bid amount %d", biddingerrors.ErrInvalidBid, amount)
	}

	when := s.now()
	if bidTime != nil && !bidTime.IsZero() {
		when = bidTime.UTC()
	}

	release, err := s.acquire(ctx, saleID)
	if err != nil {
		return BidOutcome{}, fmt.Errorf("service: lock sale %d: %w", saleID, err)
	}
	defer release()

	var (
		outcome   BidOutcome
		prevPrice int64
	)
	for attempt := 1; ; attempt++ {
		outcome, prevPrice, err = s.placeOnce(ctx, saleID, identity, amount, when)
		if err == nil {
			break
		}
		if !errors.Is(err, biddingerrors.ErrConflict) || attempt >= s.maxAttempts {
			return BidOutcome{}, err
		}
		utils.Warn("service: bid commit conflicted, retrying", map[string]any{
			"sale_id": saleID,
			"attempt": attempt,
		})
	}

	s.publishBidPlaced(ctx, outcome, prevPrice)
	return outcome, nil
}

func (s *BiddingService) acquire(ctx context.Context, saleID int64) (func(), error) {
	if s.lockWait <= 0 {
		return s.locker.Acquire(ctx, saleID)
	}
	waitCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	defer cancel()
	return s.locker.Acquire(waitCtx, saleID)
}

// placeOnce runs one all-or-nothing attempt. It rebuilds all state from storage,
// so it can be rerun after a conflict.
func (s *BiddingService) placeOnce(ctx context.Context, saleID int64, identity string, amount int64, when time.Time) (BidOutcome, int64, error) {
	var (
		outcome   BidOutcome
		prevPrice int64
	)

	err := s.repo.Atomic(ctx, func(tx repository.BidTx) error {
		sale, err := tx.LoadSaleWithBids(ctx, saleID)
		if err != nil {
			return fmt.Errorf("service: load sale %d: %w", saleID, err)
		}

		user, err := tx.LoadUserByIdentity(ctx, identity)
		if err != nil {
			return fmt.Errorf("service: load user: %w", err)
		}

		prevPrice, err = pricing.CurrentPrice(sale)
		if err != nil {
			return fmt.Errorf("service: %w", err)
		}

		candidate := &Candidate{Sale: sale, User: user, Amount: amount, BidTime: when}
		if err := s.validator.Validate(candidate); err != nil {
			return fmt.Errorf("service: %w", err)
		}

		bid := model.Bid{
			BidTime:   when,
			BidAmount: amount,
			SaleID:    sale.SaleID,
			User:      user.Clone(),
		}
		if err := tx.AppendBid(ctx, &bid); err != nil {
			return fmt.Errorf("service: append bid on sale %d: %w", saleID, err)
		}
		if err := tx.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("service: save user %d: %w", user.UserID, err)
		}

		snapshot := sale.Clone()
		snapshot.Bids = append([]model.Bid{bid.Clone()}, snapshot.Bids...)
		snapshot.BidsLoaded = true
		outcome = BidOutcome{Sale: *snapshot, User: *user.Clone()}
		return nil
	})
	if err != nil {
		return BidOutcome{}, 0, err
	}
	return outcome, prevPrice, nil
}

func (s *BiddingService) publishBidPlaced(ctx context.Context, outcome BidOutcome, prevPrice int64) {
	bid := outcome.Sale.Bids[0]
	env, err := events.NewBidPlaced(producerName, events.BidPlacedPayload{
		SaleID:          outcome.Sale.SaleID,
		BidID:           bid.BidID,
		UserID:          outcome.User.UserID,
		BidAmount:       bid.BidAmount,
		BidTime:         bid.BidTime,
		PreviousPrice:   prevPrice,
		RemainingCredit: outcome.User.Credit,
	})
	if err == nil {
		err = s.publisher.Publish(ctx, env)
	}
	if err != nil {
		utils.Warn("service: bid placed event not published", map[string]any{
			"sale_id": outcome.Sale.SaleID,
			"bid_id":  bid.BidID,
			"error":   err.Error(),
		})
	}
}

// GetSale returns a sale with its bids, highest amount first
func (s *BiddingService) GetSale(ctx context.Context, saleID int64) (model.Sale, error) {
	if saleID <= 0 {
		return model.Sale{}, fmt.Errorf("service: %w - sale id %d", biddingerrors.ErrSaleNotFound, saleID)
	}

	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return model.Sale{}, fmt.Errorf("service: failed to get sale %d: %w", saleID, err)
	}
	return sale, nil
}

// CurrentUser returns the profile and credit of the authenticated user
func (s *BiddingService) CurrentUser(ctx context.Context, identity string) (model.User, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return model.User{}, fmt.Errorf("service: %w - empty identity", biddingerrors.ErrUserNotFound)
	}

	user, err := s.repo.GetUserByIdentity(ctx, identity)
	if err != nil {
		return model.User{}, fmt.Errorf("service: failed to get user: %w", err)
	}
	return user, nil
}
