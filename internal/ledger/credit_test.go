package ledger

import (
	"errors"
	"testing"

	"auction-engine/internal/biddingerrors"
	"auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

func saleWithBids(bids ...models.Bid) *models.Sale {
	return &models.Sale{SaleID: 1, StartingPrice: 150, Seller: &models.User{UserID: 2}, Bids: bids, BidsLoaded: true}
}

func bidBy(userID, amount int64) models.Bid {
	return models.Bid{BidAmount: amount, SaleID: 1, User: &models.User{UserID: userID}}
}

func TestPreviousOwnBid(t *testing.T) {
	t.Parallel()

	sale := saleWithBids(bidBy(1, 140), bidBy(3, 150), bidBy(1, 120))
	require.Equal(t, int64(140), PreviousOwnBid(sale, 1))
	require.Equal(t, int64(150), PreviousOwnBid(sale, 3))
	require.Equal(t, int64(0), PreviousOwnBid(sale, 4))

	// bids with an unknown bidder are skipped
	require.Equal(t, int64(0), PreviousOwnBid(saleWithBids(models.Bid{BidAmount: 500}), 1))
}

func TestReserve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		credit     int64
		sale       *models.Sale
		amount     int64
		wantErr    error
		wantCredit int64
	}{
		{name: "first_bid_charges_full_amount", credit: 200, sale: saleWithBids(), amount: 160, wantCredit: 40},
		{name: "exact_credit_ends_at_zero", credit: 160, sale: saleWithBids(), amount: 160, wantCredit: 0},
		{name: "one_unit_short", credit: 159, sale: saleWithBids(), amount: 160, wantErr: biddingerrors.ErrInsufficientCredit, wantCredit: 159},
		{name: "rebid_charges_only_increase", credit: 30, sale: saleWithBids(bidBy(1, 140)), amount: 160, wantCredit: 10},
		{name: "rebid_delta_exceeds_credit", credit: 10, sale: saleWithBids(bidBy(1, 140), bidBy(2, 150)), amount: 160, wantErr: biddingerrors.ErrInsufficientCredit, wantCredit: 10},
		{name: "other_users_bids_do_not_count", credit: 100, sale: saleWithBids(bidBy(3, 90)), amount: 100, wantCredit: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			user := &models.User{UserID: 1, Credit: tc.credit}
			err := Reserve(user, tc.sale, tc.amount)
			if tc.wantErr != nil {
				require.True(t, errors.Is(err, tc.wantErr), "expected %v, got %v", tc.wantErr, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tc.wantCredit, user.Credit)
		})
	}
}

// Being outbid does not give credit back: only the bidder's own history matters.
func TestReserve_NoReleaseWhenOutbid(t *testing.T) {
	t.Parallel()

	u1 := &models.User{UserID: 1, Credit: 200}
	sale := saleWithBids()

	require.NoError(t, Reserve(u1, sale, 160))
	sale.Bids = append(sale.Bids, models.Bid{BidAmount: 160, User: u1.Clone()})
	require.Equal(t, int64(40), u1.Credit)

	sale.Bids = append(sale.Bids, bidBy(3, 300))
	require.Equal(t, int64(40), u1.Credit)

	// coming back only charges the increase over the own 160
	require.NoError(t, Reserve(u1, sale, 190))
	require.Equal(t, int64(10), u1.Credit)
}
