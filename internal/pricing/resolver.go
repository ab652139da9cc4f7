// Package pricing derives the binding price of a sale from its bid history.
package pricing

import (
	"errors"

	"auction-engine/internal/models"
)

// ErrNilSale is a programming error: the caller passed no sale at all.
var ErrNilSale = errors.New("pricing: nil sale")

// CurrentPrice returns the highest bid amount when the sale has bids,
// otherwise the settled sale price when positive, otherwise the starting price.
// The value is recomputed on every call.
func CurrentPrice(sale *models.Sale) (int64, error) {
	if sale == nil {
		return 0, ErrNilSale
	}

	if len(sale.Bids) > 0 {
		highest := sale.Bids[0].BidAmount
		for _, b := range sale.Bids[1:] {
			if b.BidAmount > highest {
				highest = b.BidAmount
			}
		}
		return highest, nil
	}

	if sale.SalePrice > 0 {
		return sale.SalePrice, nil
	}
	return sale.StartingPrice, nil
}
