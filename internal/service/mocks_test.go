package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field; set only the ones a test needs. Calling an unset field
// panics, which flags an unexpected repo call.

type mockHeroRepo struct {
	create     func(ctx context.Context, h domain.HeroBlock) (domain.HeroBlock, error)
	getActive  func(ctx context.Context) (domain.HeroBlock, error)
	listAll    func(ctx context.Context) ([]domain.HeroBlock, error)
	updateText func(ctx context.Context, id uuid.UUID, values map[string]string) error
}

func (m *mockHeroRepo) Create(ctx context.Context, h domain.HeroBlock) (domain.HeroBlock, error) {
	return m.create(ctx, h)
}
func (m *mockHeroRepo) GetActive(ctx context.Context) (domain.HeroBlock, error) {
	return m.getActive(ctx)
}
func (m *mockHeroRepo) ListAll(ctx context.Context) ([]domain.HeroBlock, error) {
	return m.listAll(ctx)
}
func (m *mockHeroRepo) UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error {
	return m.updateText(ctx, id, values)
}

var _ repo.HeroRepo = (*mockHeroRepo)(nil)

type mockReviewRepo struct {
	create     func(ctx context.Context, rv domain.Review) (domain.Review, error)
	list       func(ctx context.Context) ([]domain.Review, error)
	listAll    func(ctx context.Context) ([]domain.Review, error)
	updateText func(ctx context.Context, id uuid.UUID, values map[string]string) error
}

func (m *mockReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	return m.create(ctx, rv)
}
func (m *mockReviewRepo) List(ctx context.Context) ([]domain.Review, error) { return m.list(ctx) }
func (m *mockReviewRepo) ListAll(ctx context.Context) ([]domain.Review, error) {
	return m.listAll(ctx)
}
func (m *mockReviewRepo) UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error {
	return m.updateText(ctx, id, values)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

type mockArticleRepo struct {
	create             func(ctx context.Context, a domain.Article) (domain.Article, error)
	listPublished      func(ctx context.Context) ([]domain.Article, error)
	getPublishedBySlug func(ctx context.Context, slug string) (domain.Article, error)
	listAll            func(ctx context.Context) ([]domain.Article, error)
	slugExists         func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	updateText         func(ctx context.Context, id uuid.UUID, values map[string]string) error
}

func (m *mockArticleRepo) Create(ctx context.Context, a domain.Article) (domain.Article, error) {
	return m.create(ctx, a)
}
func (m *mockArticleRepo) ListPublished(ctx context.Context) ([]domain.Article, error) {
	return m.listPublished(ctx)
}
func (m *mockArticleRepo) GetPublishedBySlug(ctx context.Context, slug string) (domain.Article, error) {
	return m.getPublishedBySlug(ctx, slug)
}
func (m *mockArticleRepo) ListAll(ctx context.Context) ([]domain.Article, error) {
	return m.listAll(ctx)
}
func (m *mockArticleRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	return m.slugExists(ctx, slug, exclude)
}
func (m *mockArticleRepo) UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error {
	return m.updateText(ctx, id, values)
}

var _ repo.ArticleRepo = (*mockArticleRepo)(nil)

type mockNewsRepo struct {
	create             func(ctx context.Context, n domain.News) (domain.News, error)
	listPublished      func(ctx context.Context) ([]domain.News, error)
	getPublishedBySlug func(ctx context.Context, slug string) (domain.News, error)
	slugExists         func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
}

func (m *mockNewsRepo) Create(ctx context.Context, n domain.News) (domain.News, error) {
	return m.create(ctx, n)
}
func (m *mockNewsRepo) ListPublished(ctx context.Context) ([]domain.News, error) {
	return m.listPublished(ctx)
}
func (m *mockNewsRepo) GetPublishedBySlug(ctx context.Context, slug string) (domain.News, error) {
	return m.getPublishedBySlug(ctx, slug)
}
func (m *mockNewsRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	return m.slugExists(ctx, slug, exclude)
}

var _ repo.NewsRepo = (*mockNewsRepo)(nil)

type mockServiceRepo struct {
	create           func(ctx context.Context, s domain.Service) (domain.Service, error)
	createTariff     func(ctx context.Context, t domain.Tariff) (domain.Tariff, error)
	listAll          func(ctx context.Context) ([]domain.Service, error)
	listTariffs      func(ctx context.Context) ([]domain.Tariff, error)
	getBySlug        func(ctx context.Context, slug string) (domain.Service, error)
	minTariffPrice   func(ctx context.Context, serviceID uuid.UUID) (*decimal.Decimal, error)
	slugExists       func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	tariffSlugExists func(ctx context.Context, serviceID uuid.UUID, slug string) (bool, error)
	deleteAll        func(ctx context.Context) error
}

func (m *mockServiceRepo) Create(ctx context.Context, s domain.Service) (domain.Service, error) {
	return m.create(ctx, s)
}
func (m *mockServiceRepo) CreateTariff(ctx context.Context, t domain.Tariff) (domain.Tariff, error) {
	return m.createTariff(ctx, t)
}
func (m *mockServiceRepo) ListAll(ctx context.Context) ([]domain.Service, error) {
	return m.listAll(ctx)
}
func (m *mockServiceRepo) ListTariffs(ctx context.Context) ([]domain.Tariff, error) {
	return m.listTariffs(ctx)
}
func (m *mockServiceRepo) GetBySlug(ctx context.Context, slug string) (domain.Service, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockServiceRepo) MinTariffPrice(ctx context.Context, serviceID uuid.UUID) (*decimal.Decimal, error) {
	return m.minTariffPrice(ctx, serviceID)
}
func (m *mockServiceRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	return m.slugExists(ctx, slug, exclude)
}
func (m *mockServiceRepo) TariffSlugExists(ctx context.Context, serviceID uuid.UUID, slug string) (bool, error) {
	return m.tariffSlugExists(ctx, serviceID, slug)
}
func (m *mockServiceRepo) DeleteAll(ctx context.Context) error { return m.deleteAll(ctx) }

var _ repo.ServiceRepo = (*mockServiceRepo)(nil)

type mockScheduleRepo struct {
	listPublishedDays func(ctx context.Context) ([]domain.ScheduleDay, error)
	getPublishedDay   func(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error)
	createDay         func(ctx context.Context, d domain.ScheduleDay) (domain.ScheduleDay, error)
	createEvent       func(ctx context.Context, e domain.ScheduleEvent) (domain.ScheduleEvent, error)
	deleteAll         func(ctx context.Context) error
}

func (m *mockScheduleRepo) ListPublishedDays(ctx context.Context) ([]domain.ScheduleDay, error) {
	return m.listPublishedDays(ctx)
}
func (m *mockScheduleRepo) GetPublishedDay(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error) {
	return m.getPublishedDay(ctx, id)
}
func (m *mockScheduleRepo) CreateDay(ctx context.Context, d domain.ScheduleDay) (domain.ScheduleDay, error) {
	return m.createDay(ctx, d)
}
func (m *mockScheduleRepo) CreateEvent(ctx context.Context, e domain.ScheduleEvent) (domain.ScheduleEvent, error) {
	return m.createEvent(ctx, e)
}
func (m *mockScheduleRepo) DeleteAll(ctx context.Context) error { return m.deleteAll(ctx) }

var _ repo.ScheduleRepo = (*mockScheduleRepo)(nil)

type mockPageRepo struct {
	getPublishedBySlug func(ctx context.Context, slug string) (domain.Page, error)
	create             func(ctx context.Context, p domain.Page) (domain.Page, error)
	createSection      func(ctx context.Context, s domain.PageSection) (domain.PageSection, error)
	addGalleryImage    func(ctx context.Context, g domain.GalleryImage) (domain.GalleryImage, error)
	slugExists         func(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
}

func (m *mockPageRepo) GetPublishedBySlug(ctx context.Context, slug string) (domain.Page, error) {
	return m.getPublishedBySlug(ctx, slug)
}
func (m *mockPageRepo) Create(ctx context.Context, p domain.Page) (domain.Page, error) {
	return m.create(ctx, p)
}
func (m *mockPageRepo) CreateSection(ctx context.Context, s domain.PageSection) (domain.PageSection, error) {
	return m.createSection(ctx, s)
}
func (m *mockPageRepo) AddGalleryImage(ctx context.Context, g domain.GalleryImage) (domain.GalleryImage, error) {
	return m.addGalleryImage(ctx, g)
}
func (m *mockPageRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	return m.slugExists(ctx, slug, exclude)
}

var _ repo.PageRepo = (*mockPageRepo)(nil)

type mockLeadRepo struct {
	createLead           func(ctx context.Context, l domain.Lead) (domain.Lead, error)
	createDayScenario    func(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error)
	createScenarioItem   func(ctx context.Context, it domain.ScenarioItem) (domain.ScenarioItem, error)
	createServiceRequest func(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error)
}

func (m *mockLeadRepo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	return m.createLead(ctx, l)
}
func (m *mockLeadRepo) CreateDayScenario(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error) {
	return m.createDayScenario(ctx, s)
}
func (m *mockLeadRepo) CreateScenarioItem(ctx context.Context, it domain.ScenarioItem) (domain.ScenarioItem, error) {
	return m.createScenarioItem(ctx, it)
}
func (m *mockLeadRepo) CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error) {
	return m.createServiceRequest(ctx, sr)
}

var _ repo.LeadRepo = (*mockLeadRepo)(nil)

// txFunc adapts a function to service.TxRunner.
type txFunc func(ctx context.Context, fn func(repo.Repos) error) error

func (f txFunc) InTx(ctx context.Context, fn func(repo.Repos) error) error { return f(ctx, fn) }

// passThroughTx runs fn directly against r, with no rollback.
func passThroughTx(r repo.Repos) txFunc {
	return func(_ context.Context, fn func(repo.Repos) error) error { return fn(r) }
}
