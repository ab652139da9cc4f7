package perftests

import (
	"fmt"
	"time"

	bidding "auction-engine/internal/biddingService"
	model "auction-engine/internal/models"
	repository "auction-engine/internal/repository"
)

const benchCredit = int64(1) << 50

// setupRepo creates a repository with numSales open sales, all sold by one
// seller, and numUsers bidders with effectively unlimited credit.
func setupRepo(numSales, numUsers int) (*repository.MemoryRepo, *bidding.BiddingService, []string) {
	repo := repository.NewMemoryRepo()
	svc := bidding.NewBiddingService(repo, bidding.WithMaxAttempts(10))

	seller := repo.AddUser(model.User{FirstName: "seller", Email: "seller@bench.local"})

	now := time.Now().UTC()
	for i := 1; i <= numSales; i++ {
		repo.AddSale(model.Sale{
			SaleID:        int64(i),
			StartingDate:  now.Add(-time.Hour),
			EndingDate:    now.Add(time.Hour),
			StartingPrice: 100,
			Seller:        &model.User{UserID: seller.UserID},
			Item:          &model.Item{ItemID: int64(i), ItemName: fmt.Sprintf("item_%d", i)},
		})
	}

	identities := make([]string, numUsers)
	for i := range identities {
		identities[i] = fmt.Sprintf("user_%d@bench.local", i)
		repo.AddUser(model.User{Email: identities[i], Credit: benchCredit})
	}
	return repo, svc, identities
}
