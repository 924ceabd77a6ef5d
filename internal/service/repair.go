package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/mojibake"
	"github.com/struchkova/konakovo-backend/internal/repo"
)

// textField binds a column name to the accessor pair of a record type.
type textField[T any] struct {
	column string
	get    func(*T) string
	set    func(*T, string)
}

// repairTarget is one record type scanned by the repair job.
type repairTarget[T any] struct {
	model  string
	fields []textField[T]
	id     func(*T) uuid.UUID
	list   func(context.Context, repo.Repos) ([]T, error)
	update func(context.Context, repo.Repos, uuid.UUID, map[string]string) error
}

type repairer interface {
	repair(ctx context.Context, r repo.Repos, fixer *mojibake.Repairer, report *domain.RepairReport) error
}

var repairTargets = []repairer{
	repairTarget[domain.Article]{
		model: "Article",
		fields: []textField[domain.Article]{
			{"title", func(a *domain.Article) string { return a.Title }, func(a *domain.Article, v string) { a.Title = v }},
			{"preview_description", func(a *domain.Article) string { return a.PreviewDescription }, func(a *domain.Article, v string) { a.PreviewDescription = v }},
			{"content", func(a *domain.Article) string { return a.Content }, func(a *domain.Article, v string) { a.Content = v }},
		},
		id:   func(a *domain.Article) uuid.UUID { return a.ID },
		list: func(ctx context.Context, r repo.Repos) ([]domain.Article, error) { return r.Articles.ListAll(ctx) },
		update: func(ctx context.Context, r repo.Repos, id uuid.UUID, v map[string]string) error {
			return r.Articles.UpdateText(ctx, id, v)
		},
	},
	repairTarget[domain.HeroBlock]{
		model: "HeroBlock",
		fields: []textField[domain.HeroBlock]{
			{"title", func(h *domain.HeroBlock) string { return h.Title }, func(h *domain.HeroBlock, v string) { h.Title = v }},
			{"description", func(h *domain.HeroBlock) string { return h.Description }, func(h *domain.HeroBlock, v string) { h.Description = v }},
		},
		id:   func(h *domain.HeroBlock) uuid.UUID { return h.ID },
		list: func(ctx context.Context, r repo.Repos) ([]domain.HeroBlock, error) { return r.Hero.ListAll(ctx) },
		update: func(ctx context.Context, r repo.Repos, id uuid.UUID, v map[string]string) error {
			return r.Hero.UpdateText(ctx, id, v)
		},
	},
	repairTarget[domain.Review]{
		model: "Review",
		fields: []textField[domain.Review]{
			{"name", func(rv *domain.Review) string { return rv.Name }, func(rv *domain.Review, v string) { rv.Name = v }},
			{"event_name", func(rv *domain.Review) string { return rv.EventName }, func(rv *domain.Review, v string) { rv.EventName = v }},
			{"text", func(rv *domain.Review) string { return rv.Text }, func(rv *domain.Review, v string) { rv.Text = v }},
		},
		id:   func(rv *domain.Review) uuid.UUID { return rv.ID },
		list: func(ctx context.Context, r repo.Repos) ([]domain.Review, error) { return r.Reviews.ListAll(ctx) },
		update: func(ctx context.Context, r repo.Repos, id uuid.UUID, v map[string]string) error {
			return r.Reviews.UpdateText(ctx, id, v)
		},
	},
}

func (t repairTarget[T]) repair(ctx context.Context, r repo.Repos, fixer *mojibake.Repairer, report *domain.RepairReport) error {
	records, err := t.list(ctx, r)
	if err != nil {
		return fmt.Errorf("list %s: %w", t.model, err)
	}

	for i := range records {
		rec := &records[i]
		values := map[string]string{}
		fix := domain.RecordFix{Model: t.model, ID: t.id(rec), Methods: map[string]int{}}

		for _, f := range t.fields {
			current := f.get(rec)
			if current == "" {
				continue
			}
			res := fixer.Repair(current)
			if !res.Changed() {
				continue
			}
			f.set(rec, res.Text)
			values[f.column] = res.Text
			fix.Fields = append(fix.Fields, f.column)
			fix.Methods[string(res.Method)]++
		}

		if len(values) == 0 {
			continue
		}
		if err := t.update(ctx, r, fix.ID, values); err != nil {
			return fmt.Errorf("update %s %s: %w", t.model, fix.ID, err)
		}
		report.Add(fix)
	}
	return nil
}

// errDryRun unwinds the transaction after a dry run has built its report.
var errDryRun = errors.New("dry run")

// RepairService finds and reverses mojibake in stored content.
type RepairService struct {
	tx    TxRunner
	fixer *mojibake.Repairer
	log   *slog.Logger
}

// NewRepairService constructs a RepairService. A nil fixer means the
// default heuristic parameters.
func NewRepairService(tx TxRunner, fixer *mojibake.Repairer, log *slog.Logger) *RepairService {
	if fixer == nil {
		fixer = mojibake.New(mojibake.DefaultParams())
	}
	if log == nil {
		log = slog.Default()
	}
	return &RepairService{tx: tx, fixer: fixer, log: log}
}

// Run scans every article, hero block and review inside one transaction and
// writes back the repaired fields. Any storage error rolls the whole run back.
// With dryRun the report is built the same way but nothing is committed.
func (s *RepairService) Run(ctx context.Context, dryRun bool) (domain.RepairReport, error) {
	var report domain.RepairReport

	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		report = domain.RepairReport{Methods: map[string]int{}}
		for _, t := range repairTargets {
			if err := t.repair(ctx, r, s.fixer, &report); err != nil {
				return err
			}
		}
		if dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return domain.RepairReport{}, fmt.Errorf("service.RepairService.Run: %w", err)
	}

	s.log.InfoContext(ctx, "mojibake repair finished",
		"dry_run", dryRun,
		"records_fixed", report.RecordsFixed,
		"fields_changed", report.FieldsChanged,
	)
	return report, nil
}
