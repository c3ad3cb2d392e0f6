package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/repository"
)

const (
	statusAll  = "all"
	sortLatest = "latest"
)

// ArticleQueryService turns list requests into visibility-safe filtered queries
type ArticleQueryService interface {
	List(ctx context.Context, actor *domain.Actor, q domain.ArticleListQuery) (*domain.ArticlePage, error)
	// ListMine lists the caller's own articles in every status
	ListMine(ctx context.Context, actor *domain.Actor, q domain.ArticleListQuery) (*domain.ArticlePage, error)
	ListFeatured(ctx context.Context, page, pageSize int) (*domain.ArticlePage, error)
}

type articleQueryService struct {
	repo repository.ArticleRepository
}

// NewArticleQueryService creates a new ArticleQueryService
func NewArticleQueryService(repo repository.ArticleRepository) ArticleQueryService {
	return &articleQueryService{repo: repo}
}

func (s *articleQueryService) List(ctx context.Context, actor *domain.Actor, q domain.ArticleListQuery) (*domain.ArticlePage, error) {
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}

	published := domain.StatusPublished
	if actor.Admin() {
		filter.Status = adminStatus(q.Status)
	} else {
		// everyone else only ever sees published rows, whatever they asked for
		filter.Status = &published
	}

	return s.page(ctx, filter, q.Page, q.PageSize)
}

func (s *articleQueryService) ListMine(ctx context.Context, actor *domain.Actor, q domain.ArticleListQuery) (*domain.ArticlePage, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	filter, err := buildFilter(q)
	if err != nil {
		return nil, err
	}
	filter.AuthorID = actor.ID
	filter.Status = nil
	if st := domain.ArticleStatus(strings.TrimSpace(q.Status)); st.Valid() {
		filter.Status = &st
	}

	return s.page(ctx, filter, q.Page, q.PageSize)
}

func (s *articleQueryService) ListFeatured(ctx context.Context, page, pageSize int) (*domain.ArticlePage, error) {
	published := domain.StatusPublished
	featured := true
	filter := domain.ArticleFilter{Status: &published, Featured: &featured}
	return s.page(ctx, filter, page, pageSize)
}

func (s *articleQueryService) page(ctx context.Context, filter domain.ArticleFilter, page, pageSize int) (*domain.ArticlePage, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	articles, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]domain.ArticleResponse, 0, len(articles))
	for _, a := range articles {
		items = append(items, a.ToResponse())
	}
	next, previous := domain.PageLinks(page, pageSize, total)
	return &domain.ArticlePage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Next:     next,
		Previous: previous,
	}, nil
}

// adminStatus resolves the status filter for admins: empty means published,
// "all" means any status, and an unknown value is not applied.
func adminStatus(raw string) *domain.ArticleStatus {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		st := domain.StatusPublished
		return &st
	case statusAll:
		return nil
	}
	st := domain.ArticleStatus(raw)
	if !st.Valid() {
		return nil
	}
	return &st
}

// buildFilter resolves every predicate except status. Only the date range is
// strict; other malformed values drop their filter.
func buildFilter(q domain.ArticleListQuery) (domain.ArticleFilter, error) {
	filter := domain.ArticleFilter{
		Search:        strings.TrimSpace(q.Search),
		Tag:           strings.TrimSpace(q.Tag),
		AuthorID:      strings.TrimSpace(q.Author),
		FeaturedFirst: strings.TrimSpace(q.Sort) != sortLatest,
	}

	if id, err := strconv.ParseUint(strings.TrimSpace(q.Building), 10, 64); err == nil {
		filter.BuildingID = &id
	}
	if featured, err := strconv.ParseBool(strings.TrimSpace(q.Featured)); err == nil {
		filter.Featured = &featured
	}

	var from time.Time
	var err error
	if raw := strings.TrimSpace(q.DateFrom); raw != "" {
		if from, _, err = parseDate(raw); err != nil {
			return filter, common.Validation("date_from must be YYYY-MM-DD or RFC3339")
		}
		filter.CreatedFrom = &from
	}
	if raw := strings.TrimSpace(q.DateTo); raw != "" {
		to, dateOnly, err := parseDate(raw)
		if err != nil {
			return filter, common.Validation("date_to must be YYYY-MM-DD or RFC3339")
		}
		if dateOnly {
			// a bare date covers the whole day
			before := to.AddDate(0, 0, 1)
			filter.CreatedBefore = &before
		} else {
			filter.CreatedTo = &to
		}
	}
	if filter.CreatedFrom != nil {
		// a date-only upper bound is exclusive at the next midnight
		if (filter.CreatedBefore != nil && !from.Before(*filter.CreatedBefore)) ||
			(filter.CreatedTo != nil && from.After(*filter.CreatedTo)) {
			return filter, common.Validation("date_from must not be after date_to")
		}
	}

	return filter, nil
}

func parseDate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
