package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace/internal/domain"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type listingRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewListingRepository(db *pgxpool.Pool, log logger.Logger) ListingRepository {
	return &listingRepository{db: db, log: log}
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `
		SELECT id, seller_id, title, status, created_at
		FROM listings
		WHERE id = $1
	`

	listing := &domain.Listing{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&listing.ID, &listing.SellerID, &listing.Title, &listing.Status, &listing.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrListingNotFound
		}
		r.log.Error("Failed to get listing", "error", err, "listing_id", id)
		return nil, err
	}

	return listing, nil
}

func (r *listingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check listing existence", "error", err, "listing_id", id)
		return false, err
	}
	return exists, nil
}
