package subscriptions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// last_price is NUMERIC; read it through ::text and parse to keep the value
// exact instead of going through float64.
const subscriptionColumns = `id, url, apartment_id, email, (last_price::text), last_status, created_at, last_checked_at`

func scanSubscription(row pgx.Row) (Subscription, error) {
	var s Subscription
	var priceText string
	if err := row.Scan(&s.ID, &s.URL, &s.ApartmentID, &s.Email, &priceText,
		&s.LastStatus, &s.CreatedAt, &s.LastCheckedAt); err != nil {
		return Subscription{}, err
	}
	price, err := decimal.NewFromString(priceText)
	if err != nil {
		return Subscription{}, err
	}
	s.LastPrice = price
	return s, nil
}

func (r *Repository) Insert(ctx context.Context, s *Subscription) (int, error) {
	var id int
	err := r.db.QueryRow(ctx,
		`INSERT INTO subscriptions (url, apartment_id, email, last_price, last_status, last_checked_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.URL, s.ApartmentID, s.Email, s.LastPrice.String(), s.LastStatus, s.LastCheckedAt).
		Scan(&id, &s.CreatedAt)
	if err != nil {
		return 0, err
	}
	s.ID = id
	return id, nil
}

// List returns all subscriptions, newest first.
func (r *Repository) List(ctx context.Context) ([]Subscription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Subscription, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1 LIMIT 1`, id)
	s, err := scanSubscription(row)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindByApartmentAndEmail returns pgx.ErrNoRows when no such subscription
// exists.
func (r *Repository) FindByApartmentAndEmail(ctx context.Context, apartmentID int, email string) (*Subscription, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE apartment_id = $1 AND email = $2 LIMIT 1`,
		apartmentID, email)
	s, err := scanSubscription(row)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LoadAll returns the full watch-list in id order. Called by the monitor at
// the start of each sweep.
func (r *Repository) LoadAll(ctx context.Context) ([]Subscription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// SaveBaselines persists the adopted baseline fields for the given
// subscriptions in a single batch. There is no cross-item transaction; a
// partial write is tolerated and corrected by the next sweep.
func (r *Repository) SaveBaselines(ctx context.Context, subs []Subscription) error {
	if len(subs) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, s := range subs {
		b.Queue(
			`UPDATE subscriptions SET last_price = $1, last_status = $2, last_checked_at = $3 WHERE id = $4`,
			s.LastPrice.String(), s.LastStatus, s.LastCheckedAt, s.ID)
	}
	br := r.db.SendBatch(ctx, b)
	defer br.Close()
	for range subs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// IsNotFound reports whether err means the row did not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
