package models

import "time"

// SaleStatus is derived from the sale window, never stored
type SaleStatus string

const (
	StatusOngoing SaleStatus = "ONGOING"
	StatusOver    SaleStatus = "OVER"
)

// User represents a participant of the auction (bidder or seller)
type User struct {
	UserID    int64     `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	UserImg   string    `json:"user_img"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Credit    int64     `json:"credit"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`

	// Version is bumped by storage on every saved credit change.
	Version int64 `json:"-"`
}

// Category groups items
type Category struct {
	CategoryID int64  `json:"category_id"`
	Label      string `json:"label"`
}

// Item is the object put up for sale
type Item struct {
	ItemID   int64     `json:"item_id"`
	ItemName string    `json:"item_name"`
	ItemDesc string    `json:"item_desc"`
	ItemImg  string    `json:"item_img"`
	Category *Category `json:"category,omitempty"`
}

// Bid is an accepted offer on a sale. It is never modified once stored.
type Bid struct {
	BidID     int64     `json:"bid_id"`
	BidTime   time.Time `json:"bid_time"`
	BidAmount int64     `json:"bid_amount"`
	SaleID    int64     `json:"sale_id"`
	User      *User     `json:"user"`
}

// Sale is an auction listing with its bid history
type Sale struct {
	SaleID        int64     `json:"sale_id"`
	StartingDate  time.Time `json:"starting_date"`
	EndingDate    time.Time `json:"ending_date"`
	StartingPrice int64     `json:"starting_price"`
	SalePrice     int64     `json:"sale_price"`
	Seller        *User     `json:"seller"`
	Item          *Item     `json:"item"`
	Bids          []Bid     `json:"bids"`

	// BidsLoaded tells an empty history apart from one that was never fetched.
	BidsLoaded bool `json:"-"`
}

// StatusAt reports whether the sale is still running at the given instant
func (s *Sale) StatusAt(now time.Time) SaleStatus {
	if now.Before(s.EndingDate) {
		return StatusOngoing
	}
	return StatusOver
}

// Clone returns a copy of the user that shares no memory with the receiver
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// Clone returns a copy of the item including its category
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.Category != nil {
		cat := *i.Category
		c.Category = &cat
	}
	return &c
}

// Clone returns a deep copy of the bid
func (b Bid) Clone() Bid {
	b.User = b.User.Clone()
	return b
}

// Clone returns a deep copy of the sale, its seller, item and every bid.
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Seller = s.Seller.Clone()
	c.Item = s.Item.Clone()
	if s.Bids != nil {
		c.Bids = make([]Bid, len(s.Bids))
		for i, b := range s.Bids {
			c.Bids[i] = b.Clone()
		}
	}
	return &c
}
