package bidding

import (
	"errors"
	"testing"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testSale(endsIn time.Duration, bids ...model.Bid) *model.Sale {
	return &model.Sale{
		SaleID:        1,
		StartingDate:  fixedNow.Add(-48 * time.Hour),
		EndingDate:    fixedNow.Add(endsIn),
		StartingPrice: 150,
		Seller:        &model.User{UserID: 2, Email: "seller@example.com"},
		Bids:          bids,
		BidsLoaded:    true,
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		liveness      bool
		sale          *model.Sale
		user          *model.User
		amount        int64
		expectedError error
		wantCredit    int64
	}{
		{
			name:       "accepted_first_bid",
			sale:       testSale(time.Hour),
			user:       &model.User{UserID: 1, Credit: 200},
			amount:     160,
			wantCredit: 40,
		},
		{
			name:          "missing_sale",
			sale:          nil,
			user:          &model.User{UserID: 1, Credit: 200},
			amount:        160,
			expectedError: biddingerrors.ErrMissingSale,
			wantCredit:    200,
		},
		{
			name:          "missing_user",
			sale:          testSale(time.Hour),
			user:          nil,
			amount:        160,
			expectedError: biddingerrors.ErrMissingUser,
		},
		{
			name:          "equal_to_starting_price",
			sale:          testSale(time.Hour),
			user:          &model.User{UserID: 1, Credit: 100},
			amount:        150,
			expectedError: biddingerrors.ErrBidTooLow,
			wantCredit:    100,
		},
		{
			name:          "below_highest_bid",
			sale:          testSale(time.Hour, model.Bid{BidAmount: 180, User: &model.User{UserID: 3}}),
			user:          &model.User{UserID: 1, Credit: 500},
			amount:        170,
			expectedError: biddingerrors.ErrBidTooLow,
			wantCredit:    500,
		},
		{
			name:          "seller_rejected_even_with_credit",
			sale:          testSale(time.Hour),
			user:          &model.User{UserID: 2, Credit: 1000},
			amount:        500,
			expectedError: biddingerrors.ErrSellerCannotBid,
			wantCredit:    1000,
		},
		{
			name:          "rebid_delta_over_credit",
			sale:          testSale(time.Hour, model.Bid{BidAmount: 140, User: &model.User{UserID: 1}}),
			user:          &model.User{UserID: 1, Credit: 10},
			amount:        160,
			expectedError: biddingerrors.ErrInsufficientCredit,
			wantCredit:    10,
		},
		{
			name:       "ended_sale_accepted_when_liveness_off",
			sale:       testSale(-time.Hour),
			user:       &model.User{UserID: 1, Credit: 200},
			amount:     160,
			wantCredit: 40,
		},
		{
			name:          "ended_sale_rejected_when_liveness_on",
			liveness:      true,
			sale:          testSale(-time.Hour),
			user:          &model.User{UserID: 1, Credit: 200},
			amount:        160,
			expectedError: biddingerrors.ErrSaleClosed,
			wantCredit:    200,
		},
		{
			name:          "closed_checked_before_price",
			liveness:      true,
			sale:          testSale(-time.Hour),
			user:          &model.User{UserID: 1, Credit: 200},
			amount:        10,
			expectedError: biddingerrors.ErrSaleClosed,
			wantCredit:    200,
		},
		{
			name:          "price_checked_before_seller",
			sale:          testSale(time.Hour),
			user:          &model.User{UserID: 2, Credit: 200},
			amount:        100,
			expectedError: biddingerrors.ErrBidTooLow,
			wantCredit:    200,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := &Validator{CheckSaleLiveness: tc.liveness, Now: func() time.Time { return fixedNow }}
			err := v.Validate(&Candidate{Sale: tc.sale, User: tc.user, Amount: tc.amount, BidTime: fixedNow})

			if tc.expectedError != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tc.expectedError), "expected %v, got %v", tc.expectedError, err)
			} else {
				require.NoError(t, err)
			}
			if tc.user != nil {
				require.Equal(t, tc.wantCredit, tc.user.Credit)
			}
		})
	}
}

func TestNewValidator_DefaultsToWallClock(t *testing.T) {
	t.Parallel()

	v := NewValidator(true)
	require.True(t, v.CheckSaleLiveness)
	require.WithinDuration(t, time.Now().UTC(), v.Now(), time.Second)
}
