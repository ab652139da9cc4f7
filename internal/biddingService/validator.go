package bidding

import (
	"fmt"
	"time"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/ledger"
	"auction-engine/internal/models"
	"auction-engine/internal/pricing"
)

// Candidate is a bid that has not been accepted yet
type Candidate struct {
	Sale    *models.Sale
	User    *models.User
	Amount  int64
	BidTime time.Time
}

// Validator runs the bid rule chain. The first failing rule stops evaluation.
type Validator struct {
	// CheckSaleLiveness rejects bids on sales whose ending date has passed.
	CheckSaleLiveness bool
	Now               func() time.Time
}

// NewValidator creates a Validator using the wall clock
func NewValidator(checkSaleLiveness bool) *Validator {
	return &Validator{
		CheckSaleLiveness: checkSaleLiveness,
		Now:               func() time.Time { return time.Now().UTC() },
	}
}

// Validate checks the candidate and, when every rule passes, reserves its
// credit on c.User. Any error leaves c.User unchanged.
func (v *Validator) Validate(c *Candidate) error {
	if c.Sale == nil {
		return fmt.Errorf("validator: %w", biddingerrors.ErrMissingSale)
	}
	if c.User == nil {
		return fmt.Errorf("validator: %w", biddingerrors.ErrMissingUser)
	}

	if v.CheckSaleLiveness && c.Sale.StatusAt(v.now()) == models.StatusOver {
		return fmt.Errorf("validator: %w - sale %d ended at %s", biddingerrors.ErrSaleClosed, c.Sale.SaleID, c.Sale.EndingDate.Format(time.RFC3339))
	}

	current, err := pricing.CurrentPrice(c.Sale)
	if err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	if c.Amount <= current {
		return fmt.Errorf("validator: %w - current price is %d", biddingerrors.ErrBidTooLow, current)
	}

	if c.Sale.Seller != nil && c.Sale.Seller.UserID == c.User.UserID {
		return fmt.Errorf("validator: %w", biddingerrors.ErrSellerCannotBid)
	}

	if err := ledger.Reserve(c.User, c.Sale, c.Amount); err != nil {
		return fmt.Errorf("validator: %w", err)
	}
	return nil
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now().UTC()
	}
	return v.Now()
}
