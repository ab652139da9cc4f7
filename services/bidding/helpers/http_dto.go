package helpers

import (
	"time"

	model "auction-engine/internal/models"
	"auction-engine/internal/pricing"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	SaleID    int64 `json:"sale_id" binding:"required,gt=0"`
	BidAmount int64 `json:"bid_amount" binding:"required,gt=0"`
	// UserID is accepted for compatibility; the bidder is always the authenticated user.
	UserID  int64      `json:"user_id,omitempty"`
	BidTime *time.Time `json:"bid_time,omitempty"`
}

type CategoryResponse struct {
	CategoryID int64  `json:"category_id"`
	Label      string `json:"label"`
}

type ItemResponse struct {
	ItemID   int64             `json:"item_id"`
	ItemName string            `json:"item_name"`
	ItemDesc string            `json:"item_desc"`
	ItemImg  string            `json:"item_img"`
	Category *CategoryResponse `json:"category,omitempty"`
}

// UserResponse is the full profile, only ever returned to the user themself
type UserResponse struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserImg   string `json:"user_img"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Credit    int64  `json:"credit"`
	CreatedAt string `json:"created_at"`
}

// PublicUserResponse is what other participants may see
type PublicUserResponse struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserImg   string `json:"user_img"`
}

type BidResponse struct {
	BidID     int64               `json:"bid_id"`
	BidTime   string              `json:"bid_time"`
	BidAmount int64               `json:"bid_amount"`
	User      *PublicUserResponse `json:"user,omitempty"`
}

type SaleResponse struct {
	SaleID        int64               `json:"sale_id"`
	StartingDate  string              `json:"starting_date"`
	EndingDate    string              `json:"ending_date"`
	StartingPrice int64               `json:"starting_price"`
	SalePrice     int64               `json:"sale_price"`
	Status        string              `json:"status"`
	CurrentBid    int64               `json:"current_bid"`
	Seller        *PublicUserResponse `json:"seller,omitempty"`
	Item          *ItemResponse       `json:"item,omitempty"`
	Bids          []BidResponse       `json:"bids"`
}

type PlaceBidResponse struct {
	Sale SaleResponse `json:"sale"`
	User UserResponse `json:"user"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserImg:   u.UserImg,
		Email:     u.Email,
		Phone:     u.Phone,
		Credit:    u.Credit,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func newPublicUser(u *model.User) *PublicUserResponse {
	if u == nil {
		return nil
	}
	return &PublicUserResponse{UserID: u.UserID, FirstName: u.FirstName, LastName: u.LastName, UserImg: u.UserImg}
}

func newItem(i *model.Item) *ItemResponse {
	if i == nil {
		return nil
	}
	resp := &ItemResponse{ItemID: i.ItemID, ItemName: i.ItemName, ItemDesc: i.ItemDesc, ItemImg: i.ItemImg}
	if i.Category != nil {
		resp.Category = &CategoryResponse{CategoryID: i.Category.CategoryID, Label: i.Category.Label}
	}
	return resp
}

// NewSaleResponse keeps the bid order of the given sale and derives status
// and current bid at now.
func NewSaleResponse(s model.Sale, now time.Time) SaleResponse {
	current, _ := pricing.CurrentPrice(&s)

	bids := make([]BidResponse, 0, len(s.Bids))
	for _, b := range s.Bids {
		bids = append(bids, BidResponse{
			BidID:     b.BidID,
			BidTime:   formatTime(b.BidTime),
			BidAmount: b.BidAmount,
			User:      newPublicUser(b.User),
		})
	}

	return SaleResponse{
		SaleID:        s.SaleID,
		StartingDate:  formatTime(s.StartingDate),
		EndingDate:    formatTime(s.EndingDate),
		StartingPrice: s.StartingPrice,
		SalePrice:     s.SalePrice,
		Status:        string(s.StatusAt(now)),
		CurrentBid:    current,
		Seller:        newPublicUser(s.Seller),
		Item:          newItem(s.Item),
		Bids:          bids,
	}
}
