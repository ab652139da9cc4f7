package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-engine/internal/biddingerrors"
	model "auction-engine/internal/models"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	selectSale = `
		SELECT s.sale_id, s.starting_date, s.ending_date, s.starting_price, s.sale_price,
		       u.user_id, u.first_name, u.last_name, u.user_img, u.email, u.phone, u.credit, u.is_admin, u.created_at,
		       i.item_id, i.item_name, i.item_desc, i.item_img, c.category_id, c.label
		FROM sales s
		JOIN users u ON u.user_id = s.seller_id
		JOIN items i ON i.item_id = s.item_id
		LEFT JOIN categories c ON c.category_id = i.category_id
		WHERE s.sale_id = $1`

	selectBids = `
		SELECT b.bid_id, b.bid_amount, b.bid_time, b.sale_id,
		       u.user_id, u.first_name, u.last_name, u.user_img, u.email
		FROM bids b
		JOIN users u ON u.user_id = b.user_id
		WHERE b.sale_id = $1
		ORDER BY b.bid_amount DESC, b.bid_id`

	selectUser = `
		SELECT user_id, first_name, last_name, user_img, email, phone, credit, is_admin, created_at
		FROM users
		WHERE lower(email) = lower($1)`
)

// errCommit marks an error returned by COMMIT
var errCommit = errors.New("commit tx")

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepo implements AuctionDB on PostgreSQL. Atomic units lock the sale
// row and then the bidder row with SELECT ... FOR UPDATE.
type PostgresRepo struct {
	pool   *pgxpool.Pool
	delays []time.Duration
}

// NewPostgresRepo connects to the database and applies the embedded migrations
func NewPostgresRepo(dsn string) (*PostgresRepo, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepo{
		pool:   pool,
		delays: []time.Duration{50 * time.Millisecond, 150 * time.Millisecond, 400 * time.Millisecond},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepo) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close releases the connection pool
func (r *PostgresRepo) Close() error {
	r.pool.Close()
	return nil
}

// Atomic runs fn in one transaction. Serialization failures and deadlocks
// rerun fn from scratch in a fresh transaction, as do dropped connections
// before COMMIT. A connection lost during COMMIT is returned as is.
func (r *PostgresRepo) Atomic(ctx context.Context, fn func(tx BidTx) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(&pgBidTx{q: tx}); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%w: %w", errCommit, err)
		}
		return nil
	})
}

func (r *PostgresRepo) GetSale(ctx context.Context, saleID int64) (model.Sale, error) {
	sale, err := loadSale(ctx, r.pool, saleID, false)
	if err != nil {
		return model.Sale{}, err
	}
	return *sale, nil
}

func (r *PostgresRepo) GetUserByIdentity(ctx context.Context, identity string) (model.User, error) {
	user, err := loadUser(ctx, r.pool, identity, false)
	if err != nil {
		return model.User{}, err
	}
	return *user, nil
}

func (r *PostgresRepo) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(r.delays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(r.delays) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.delays[i]):
		}
	}
	return err
}

// isRetryable reports whether fn can safely run again. A server error reply
// means the transaction was rolled back; a transport error during COMMIT
// leaves the outcome unknown.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	if errors.Is(err, errCommit) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset by peer")
}

type pgBidTx struct {
	q querier
}

func (t *pgBidTx) LoadSaleWithBids(ctx context.Context, saleID int64) (*model.Sale, error) {
	return loadSale(ctx, t.q, saleID, true)
}

func (t *pgBidTx) LoadUserByIdentity(ctx context.Context, identity string) (*model.User, error) {
	return loadUser(ctx, t.q, identity, true)
}

func (t *pgBidTx) AppendBid(ctx context.Context, bid *model.Bid) error {
	if bid.User == nil {
		return fmt.Errorf("append bid for sale %d: %w", bid.SaleID, biddingerrors.ErrMissingUser)
	}

	err := t.q.QueryRow(ctx,
		`INSERT INTO bids (bid_amount, bid_time, user_id, sale_id) VALUES ($1, $2, $3, $4) RETURNING bid_id`,
		bid.BidAmount, bid.BidTime.UTC(), bid.User.UserID, bid.SaleID,
	).Scan(&bid.BidID)
	if err != nil {
		return fmt.Errorf("insert bid for sale %d: %w", bid.SaleID, err)
	}
	return nil
}

func (t *pgBidTx) SaveUser(ctx context.Context, user *model.User) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE users
		 SET first_name = $1, last_name = $2, user_img = $3, phone = $4, credit = $5
		 WHERE user_id = $6`,
		user.FirstName, user.LastName, user.UserImg, user.Phone, user.Credit, user.UserID,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user %d: %w", user.UserID, biddingerrors.ErrUserNotFound)
	}
	return nil
}

func loadSale(ctx context.Context, q querier, saleID int64, forUpdate bool) (*model.Sale, error) {
	query := selectSale
	if forUpdate {
		query += " FOR UPDATE OF s"
	}

	var (
		sale       model.Sale
		seller     model.User
		item       model.Item
		categoryID *int64
		label      *string
	)
	err := q.QueryRow(ctx, query, saleID).Scan(
		&sale.SaleID, &sale.StartingDate, &sale.EndingDate, &sale.StartingPrice, &sale.SalePrice,
		&seller.UserID, &seller.FirstName, &seller.LastName, &seller.UserImg, &seller.Email,
		&seller.Phone, &seller.Credit, &seller.IsAdmin, &seller.CreatedAt,
		&item.ItemID, &item.ItemName, &item.ItemDesc, &item.ItemImg, &categoryID, &label,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load sale %d: %w", saleID, biddingerrors.ErrSaleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load sale %d: %w", saleID, err)
	}

	if categoryID != nil {
		item.Category = &model.Category{CategoryID: *categoryID}
		if label != nil {
			item.Category.Label = *label
		}
	}
	sale.Seller = &seller
	sale.Item = &item

	bids, err := loadBids(ctx, q, saleID)
	if err != nil {
		return nil, err
	}
	sale.Bids = bids
	sale.BidsLoaded = true

	return &sale, nil
}

func loadBids(ctx context.Context, q querier, saleID int64) ([]model.Bid, error) {
	rows, err := q.Query(ctx, selectBids, saleID)
	if err != nil {
		return nil, fmt.Errorf("query bids for sale %d: %w", saleID, err)
	}
	defer rows.Close()

	bids := make([]model.Bid, 0)
	for rows.Next() {
		var (
			b model.Bid
			u model.User
		)
		if err := rows.Scan(&b.BidID, &b.BidAmount, &b.BidTime, &b.SaleID,
			&u.UserID, &u.FirstName, &u.LastName, &u.UserImg, &u.Email); err != nil {
			return nil, fmt.Errorf("scan bid for sale %d: %w", saleID, err)
		}
		b.User = &u
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bids for sale %d: %w", saleID, err)
	}
	return bids, nil
}

func loadUser(ctx context.Context, q querier, identity string, forUpdate bool) (*model.User, error) {
	query := selectUser
	if forUpdate {
		query += " FOR UPDATE"
	}

	var u model.User
	err := q.QueryRow(ctx, query, strings.TrimSpace(identity)).Scan(
		&u.UserID, &u.FirstName, &u.LastName, &u.UserImg, &u.Email, &u.Phone, &u.Credit, &u.IsAdmin, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load user %q: %w", identity, biddingerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load user %q: %w", identity, err)
	}
	return &u, nil
}
