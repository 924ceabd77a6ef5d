package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// ReviewRepo defines the persistence operations for Reviews.
type ReviewRepo interface {
	Create(ctx context.Context, rv domain.Review) (domain.Review, error)

	// List returns reviews newest first (date desc, created_at desc).
	List(ctx context.Context) ([]domain.Review, error)

	// ListAll returns every review ordered by created_at, id.
	ListAll(ctx context.Context) ([]domain.Review, error)

	// UpdateText overwrites the given text columns (name, event_name, text).
	UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error
}

var reviewTextColumns = []string{"name", "event_name", "text"}

type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

const reviewColumns = `id, avatar, name, event_name, rating, text, date, created_at`

func (r *pgReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	const q = `
		INSERT INTO reviews (avatar, name, event_name, rating, text, date)
		VALUES (@avatar, @name, @event_name, @rating, @text, @date)
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"avatar":     rv.Avatar,
		"name":       rv.Name,
		"event_name": rv.EventName,
		"rating":     rv.Rating,
		"text":       rv.Text,
		"date":       rv.Date,
	}

	result, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgReviewRepo) List(ctx context.Context) ([]domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews ORDER BY date DESC, created_at DESC`
	return r.list(ctx, "List", q)
}

func (r *pgReviewRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews ORDER BY created_at, id`
	return r.list(ctx, "ListAll", q)
}

func (r *pgReviewRepo) list(ctx context.Context, method, q string) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.%s: %w", method, err)
	}
	reviews, err := collect(rows, scanReview)
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.%s: rows: %w", method, err)
	}
	return reviews, nil
}

func (r *pgReviewRepo) UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error {
	if err := updateTextColumns(ctx, r.db, "reviews", reviewTextColumns, id, values); err != nil {
		return fmt.Errorf("repo.ReviewRepo.UpdateText: %w", err)
	}
	return nil
}

func scanReview(s scanner) (domain.Review, error) {
	var (
		rv   domain.Review
		id   pgtype.UUID
		date pgtype.Date
	)
	if err := s.Scan(&id, &rv.Avatar, &rv.Name, &rv.EventName, &rv.Rating, &rv.Text, &date, &rv.CreatedAt); err != nil {
		return domain.Review{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.Date = date.Time
	return rv, nil
}
