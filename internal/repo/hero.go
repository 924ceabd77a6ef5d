package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// HeroRepo defines the persistence operations for HeroBlocks.
type HeroRepo interface {
	// Create inserts a hero block and returns the persisted record.
	Create(ctx context.Context, h domain.HeroBlock) (domain.HeroBlock, error)

	// GetActive returns the newest active hero block.
	// Returns domain.ErrNotFound when no block is active.
	GetActive(ctx context.Context) (domain.HeroBlock, error)

	// ListAll returns every hero block ordered by created_at, id.
	ListAll(ctx context.Context) ([]domain.HeroBlock, error)

	// UpdateText overwrites the given text columns (title, description).
	UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error
}

var heroTextColumns = []string{"title", "description"}

type pgHeroRepo struct {
	db db
}

// NewHeroRepo constructs a HeroRepo backed by the provided db connection.
func NewHeroRepo(db db) HeroRepo {
	return &pgHeroRepo{db: db}
}

const heroColumns = `id, title, description, background_image, avatar, is_active, created_at`

func (r *pgHeroRepo) Create(ctx context.Context, h domain.HeroBlock) (domain.HeroBlock, error) {
	const q = `
		INSERT INTO hero_blocks (title, description, background_image, avatar, is_active)
		VALUES (@title, @description, @background_image, @avatar, @is_active)
		RETURNING ` + heroColumns

	args := pgx.NamedArgs{
		"title":            h.Title,
		"description":      h.Description,
		"background_image": h.BackgroundImage,
		"avatar":           h.Avatar,
		"is_active":        h.IsActive,
	}

	result, err := scanHero(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.HeroBlock{}, fmt.Errorf("repo.HeroRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgHeroRepo) GetActive(ctx context.Context) (domain.HeroBlock, error) {
	const q = `
		SELECT ` + heroColumns + `
		FROM hero_blocks
		WHERE is_active
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	result, err := scanHero(r.db.QueryRow(ctx, q))
	if err != nil {
		return domain.HeroBlock{}, fmt.Errorf("repo.HeroRepo.GetActive: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgHeroRepo) ListAll(ctx context.Context) ([]domain.HeroBlock, error) {
	const q = `SELECT ` + heroColumns + ` FROM hero_blocks ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.HeroRepo.ListAll: %w", err)
	}
	heroes, err := collect(rows, scanHero)
	if err != nil {
		return nil, fmt.Errorf("repo.HeroRepo.ListAll: rows: %w", err)
	}
	return heroes, nil
}

func (r *pgHeroRepo) UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error {
	if err := updateTextColumns(ctx, r.db, "hero_blocks", heroTextColumns, id, values); err != nil {
		return fmt.Errorf("repo.HeroRepo.UpdateText: %w", err)
	}
	return nil
}

func scanHero(s scanner) (domain.HeroBlock, error) {
	var (
		h  domain.HeroBlock
		id pgtype.UUID
	)
	if err := s.Scan(&id, &h.Title, &h.Description, &h.BackgroundImage, &h.Avatar, &h.IsActive, &h.CreatedAt); err != nil {
		return domain.HeroBlock{}, err
	}
	h.ID = uuid.UUID(id.Bytes)
	return h, nil
}
