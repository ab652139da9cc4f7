package repository

import (
	"context"

	model "auction-engine/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionDB is the storage collaborator of the bidding service
type AuctionDB interface {
	// Atomic runs fn inside one all-or-nothing unit. Any error returned by fn
	// discards every write made through the BidTx.
	Atomic(ctx context.Context, fn func(tx BidTx) error) error
	GetSale(ctx context.Context, saleID int64) (model.Sale, error)
	GetUserByIdentity(ctx context.Context, identity string) (model.User, error)
}

// BidTx is the view of storage available inside an atomic unit
type BidTx interface {
	// LoadSaleWithBids returns the sale with every bid, highest amount first.
	LoadSaleWithBids(ctx context.Context, saleID int64) (*model.Sale, error)
	LoadUserByIdentity(ctx context.Context, identity string) (*model.User, error)
	// AppendBid stores a new bid and sets its BidID.
	AppendBid(ctx context.Context, bid *model.Bid) error
	SaveUser(ctx context.Context, user *model.User) error
}
