package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-engine/internal/auth"
	bidding "auction-engine/internal/biddingService"
	"auction-engine/internal/config"
	"auction-engine/internal/events"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/salelock"
	"auction-engine/internal/server"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const (
	publisherBuffer = 1024
	demoTokenTTL    = 24 * time.Hour
)

func main() {
	cfg, err := config.Parse()
	if err != nil {
		utils.Fatal("configuration error", map[string]any{"error": err.Error()})
	}

	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("unknown log level, keeping info", map[string]any{"level": cfg.LogLevel})
	}
	gin.SetMode(gin.ReleaseMode)

	authn := auth.NewAuthenticator(cfg.JWTSecret)

	var (
		repo      repository.AuctionDB
		demoUsers []model.User
	)
	if cfg.DatabaseURI != "" {
		pg, err := repository.NewPostgresRepo(cfg.DatabaseURI)
		if err != nil {
			utils.Fatal("database initialization error", map[string]any{"error": err.Error()})
		}
		defer pg.Close()
		repo = pg
	} else {
		mem := repository.NewMemoryRepo()
		demoUsers = prepopulateSales(mem)
		repo = mem
	}

	opts := []bidding.Option{
		bidding.WithValidator(bidding.NewValidator(cfg.EnforceSaleLiveness)),
		bidding.WithLockWait(cfg.LockWaitTimeout),
	}

	if cfg.RedisAddr != "" {
		client, err := salelock.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			utils.Fatal("redis initialization error", map[string]any{"error": err.Error()})
		}
		defer client.Close()
		opts = append(opts, bidding.WithLocker(salelock.NewRedis(client, cfg.LockTTL, 0)))
	}

	var kafkaPub *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, publisherBuffer)
		opts = append(opts, bidding.WithPublisher(kafkaPub))
	}

	biddingSvc := bidding.NewBiddingService(repo, opts...)
	router := server.SetupRouter(biddingSvc, authn)

	logDemoTokens(authn, demoUsers)

	srv := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if kafkaPub != nil {
		g.Go(func() error {
			return kafkaPub.Run(ctx)
		})
	}

	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{
			"addr":     cfg.RunAddress,
			"postgres": cfg.DatabaseURI != "",
			"redis":    cfg.RedisAddr != "",
			"kafka":    kafkaPub != nil,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		utils.Info("shutting down server", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		utils.Info("server stopped gracefully", nil)
		return nil
	})

	if err := g.Wait(); err != nil {
		utils.Error("application terminated with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

// prepopulateSales adds demo users and sales to the in-memory repo and
// returns the users that can bid.
func prepopulateSales(repo *repository.MemoryRepo) []model.User {
	now := time.Now().UTC()

	seller := repo.AddUser(model.User{FirstName: "Sam", LastName: "Seller", Email: "seller@example.com", Credit: 0, CreatedAt: now})
	alice := repo.AddUser(model.User{FirstName: "Alice", LastName: "Martin", Email: "alice@example.com", Credit: 1_000, CreatedAt: now})
	bob := repo.AddUser(model.User{FirstName: "Bob", LastName: "Durand", Email: "bob@example.com", Credit: 500, CreatedAt: now})

	home := &model.Category{CategoryID: 1, Label: "home"}
	music := &model.Category{CategoryID: 2, Label: "music"}

	sales := []model.Sale{
		{SaleID: 1, StartingPrice: 100, Item: &model.Item{ItemID: 1, ItemName: "Desk lamp", ItemDesc: "Brass desk lamp", Category: home}},
		{SaleID: 2, StartingPrice: 200, Item: &model.Item{ItemID: 2, ItemName: "Turntable", ItemDesc: "Belt drive turntable", Category: music}},
		{SaleID: 3, StartingPrice: 150, SalePrice: 180, Item: &model.Item{ItemID: 3, ItemName: "Armchair", ItemDesc: "Reading armchair", Category: home}},
	}
	for _, s := range sales {
		s.StartingDate = now.Add(-time.Hour)
		s.EndingDate = now.Add(7 * 24 * time.Hour)
		s.Seller = &model.User{UserID: seller.UserID}
		repo.AddSale(s)
	}

	return []model.User{seller, alice, bob}
}

func logDemoTokens(authn *auth.Authenticator, users []model.User) {
	for _, u := range users {
		token, err := authn.IssueToken(u.Email, demoTokenTTL)
		if err != nil {
			utils.Warn("could not issue demo token", map[string]any{"email": u.Email, "error": err.Error()})
			continue
		}
		utils.Info("demo bearer token", map[string]any{"email": u.Email, "token": token})
	}
}
