// Package ledger holds the credit reservation rule applied when a user bids.
//
// A user's credit is the pool of capacity not yet reserved by bids. A re-bid
// on the same sale only charges the increase over the user's own previous
// highest bid there. Credit reserved on a sale is not released when another
// user outbids it.
package ledger

import (
	"fmt"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/models"
)

// PreviousOwnBid returns the highest amount userID already bid on the sale, 0 if none.
func PreviousOwnBid(sale *models.Sale, userID int64) int64 {
	var prev int64
	for _, b := range sale.Bids {
		if b.User == nil || b.User.UserID != userID {
			continue
		}
		if b.BidAmount > prev {
			prev = b.BidAmount
		}
	}
	return prev
}

// Delta is the amount a new bid of the given size charges against the user's credit.
func Delta(sale *models.Sale, user *models.User, amount int64) int64 {
	return amount - PreviousOwnBid(sale, user.UserID)
}

// Reserve charges the bid's delta against user.Credit in place.
// On failure the credit is left untouched.
func Reserve(user *models.User, sale *models.Sale, amount int64) error {
	delta := Delta(sale, user, amount)
	if user.Credit-delta < 0 {
		return fmt.Errorf("ledger: %w - needs %d, has %d", biddingerrors.ErrInsufficientCredit, delta, user.Credit)
	}
	user.Credit -= delta
	return nil
}
