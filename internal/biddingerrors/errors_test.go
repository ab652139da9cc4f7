package biddingerrors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindAndCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantKind Kind
		wantCode string
	}{
		{name: "sale_not_found", err: ErrSaleNotFound, wantKind: KindNotFound, wantCode: "sale.not.found"},
		{name: "wrapped_too_low", err: fmt.Errorf("service: %w - current price 150", ErrBidTooLow), wantKind: KindValidation, wantCode: "bid.amount.tooLow"},
		{name: "seller", err: ErrSellerCannotBid, wantKind: KindValidation, wantCode: "bid.user.isSeller"},
		{name: "busy", err: fmt.Errorf("acquire: %w", ErrBusy), wantKind: KindConflict, wantCode: "bid.sale.busy"},
		{name: "infrastructure", err: fmt.Errorf("load sale: %w", context.Canceled), wantKind: KindUnknown, wantCode: ""},
		{name: "nil", err: nil, wantKind: KindUnknown, wantCode: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.wantKind, KindOf(tc.err))
			require.Equal(t, tc.wantCode, CodeOf(tc.err))
		})
	}
}

func TestErrorIs_MatchesByCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("service: %w", ErrInsufficientCredit)
	require.True(t, errors.Is(wrapped, ErrInsufficientCredit))
	require.False(t, errors.Is(wrapped, ErrBidTooLow))

	copyOf := &Error{Kind: KindValidation, Code: "bid.user.credit.insufficient"}
	require.True(t, errors.Is(wrapped, copyOf))
	require.Equal(t, "validation", KindValidation.String())
}
