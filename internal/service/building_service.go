package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/repository"
	pkglogger "github.com/buildlore/heritage-backend/pkg/logger"
)

// BuildingService manages building records. Any signed-in user may register a
// building; only its creator or an admin may change or remove it.
type BuildingService interface {
	Create(ctx context.Context, actor *domain.Actor, req *domain.CreateBuildingRequest) (*domain.Building, error)
	Update(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdateBuildingRequest) (*domain.Building, error)
	Delete(ctx context.Context, actor *domain.Actor, id uint64) error
	Get(ctx context.Context, id uint64) (*domain.Building, error)
	List(ctx context.Context, q domain.BuildingListQuery) (*domain.BuildingPage, error)
	ListMine(ctx context.Context, actor *domain.Actor, page, pageSize int) (*domain.BuildingPage, error)
	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)

	AttachImage(ctx context.Context, actor *domain.Actor, id uint64, file *MediaUpload) (*domain.Building, error)
	// AttachModel replaces the 3D model file, optionally together with its scene JSON
	AttachModel(ctx context.Context, actor *domain.Actor, id uint64, file *MediaUpload, sceneJSON *string) (*domain.Building, error)
	RemoveModel(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Building, error)
	UpdateModelJSON(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdateModelJSONRequest) (*domain.Building, error)
}

type buildingService struct {
	repo  repository.BuildingRepository
	media *MediaService
}

// NewBuildingService creates a new BuildingService
func NewBuildingService(repo repository.BuildingRepository, media *MediaService) BuildingService {
	return &buildingService{repo: repo, media: media}
}

func (s *buildingService) Create(ctx context.Context, actor *domain.Actor, req *domain.CreateBuildingRequest) (*domain.Building, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	for _, f := range [][2]string{
		{"name", req.Name},
		{"description", req.Description},
		{"address", req.Address},
		{"category", req.Category},
	} {
		if err := requireText(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := checkSceneJSON(req.ModelJSON); err != nil {
		return nil, err
	}
	tags := domain.JoinList(req.Tags)
	if len(tags) > maxTagsLength {
		return nil, common.Validation("tags must be at most %d characters", maxTagsLength)
	}

	building := &domain.Building{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Address:     strings.TrimSpace(req.Address),
		Category:    strings.TrimSpace(req.Category),
		Tags:        tags,
		Image:       strings.TrimSpace(req.Image),
		ModelJSON:   req.ModelJSON,
		Markdown:    req.Markdown,
		CreatorID:   actor.ID,
	}
	if err := s.repo.Create(ctx, building); err != nil {
		return nil, err
	}
	return building, nil
}

// editable loads a building the actor may change
func (s *buildingService) editable(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Building, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	building, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin() && !actor.Owns(building.CreatorID) {
		return nil, common.ErrNotOwner
	}
	return building, nil
}

func (s *buildingService) Update(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdateBuildingRequest) (*domain.Building, error) {
	building, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	for _, f := range []struct {
		column string
		value  *string
	}{
		{"name", req.Name},
		{"description", req.Description},
		{"address", req.Address},
		{"category", req.Category},
	} {
		if f.value == nil {
			continue
		}
		if err := requireText(f.column, *f.value); err != nil {
			return nil, err
		}
		updates[f.column] = strings.TrimSpace(*f.value)
	}
	if req.Tags != nil {
		tags := domain.JoinList(*req.Tags)
		if len(tags) > maxTagsLength {
			return nil, common.Validation("tags must be at most %d characters", maxTagsLength)
		}
		updates["tags"] = tags
	}
	if req.Image != nil {
		updates["image"] = strings.TrimSpace(*req.Image)
	}
	if req.ModelJSON != nil {
		if err := checkSceneJSON(*req.ModelJSON); err != nil {
			return nil, err
		}
		updates["model_json"] = *req.ModelJSON
	}
	if req.Markdown != nil {
		updates["markdown"] = *req.Markdown
	}

	if len(updates) == 0 {
		return building, nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	if req.Image != nil && building.Image != "" && building.Image != updates["image"] {
		s.media.Release(ctx, []string{building.Image})
	}
	return s.repo.FindByID(ctx, id)
}

func (s *buildingService) Delete(ctx context.Context, actor *domain.Actor, id uint64) error {
	building, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.media.Release(ctx, building.MediaKeys())

	pkglogger.GetLogger().Info().
		Uint64("building_id", id).
		Str("actor", actor.ID).
		Msg("building deleted")
	return nil
}

func (s *buildingService) Get(ctx context.Context, id uint64) (*domain.Building, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *buildingService) List(ctx context.Context, q domain.BuildingListQuery) (*domain.BuildingPage, error) {
	filter := domain.BuildingFilter{
		Search:    strings.TrimSpace(q.Search),
		Category:  strings.TrimSpace(q.Category),
		Tag:       strings.TrimSpace(q.Tag),
		CreatorID: strings.TrimSpace(q.Creator),
	}
	return s.page(ctx, filter, q.Page, q.PageSize)
}

func (s *buildingService) ListMine(ctx context.Context, actor *domain.Actor, page, pageSize int) (*domain.BuildingPage, error) {
	if actor.IsAnonymous() {
		return nil, common.ErrLoginRequired
	}
	return s.page(ctx, domain.BuildingFilter{CreatorID: actor.ID}, page, pageSize)
}

func (s *buildingService) page(ctx context.Context, filter domain.BuildingFilter, page, pageSize int) (*domain.BuildingPage, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize

	buildings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BuildingResponse, 0, len(buildings))
	for _, b := range buildings {
		items = append(items, b.ToResponse())
	}
	next, previous := domain.PageLinks(page, pageSize, total)
	return &domain.BuildingPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Next:     next,
		Previous: previous,
	}, nil
}

func (s *buildingService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *buildingService) Tags(ctx context.Context) ([]string, error) {
	return s.repo.Tags(ctx)
}

func (s *buildingService) AttachImage(ctx context.Context, actor *domain.Actor, id uint64, file *MediaUpload) (*domain.Building, error) {
	building, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	uploaded, err := s.media.UploadImage(ctx, "buildings/images", file)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, map[string]interface{}{"image": uploaded.Key}); err != nil {
		s.media.Release(ctx, []string{uploaded.Key})
		return nil, err
	}
	if building.Image != "" {
		s.media.Release(ctx, []string{building.Image})
	}
	return s.repo.FindByID(ctx, id)
}

func (s *buildingService) AttachModel(ctx context.Context, actor *domain.Actor, id uint64, file *MediaUpload, sceneJSON *string) (*domain.Building, error) {
	building, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if sceneJSON != nil {
		if err := checkSceneJSON(*sceneJSON); err != nil {
			return nil, err
		}
	}

	uploaded, err := s.media.UploadModel(ctx, "buildings/models", file)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"model_key": uploaded.Key,
		"model_url": uploaded.URL,
	}
	if sceneJSON != nil {
		updates["model_json"] = *sceneJSON
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		s.media.Release(ctx, []string{uploaded.Key})
		return nil, err
	}
	if building.ModelKey != "" {
		s.media.Release(ctx, []string{building.ModelKey})
	}
	return s.repo.FindByID(ctx, id)
}

func (s *buildingService) RemoveModel(ctx context.Context, actor *domain.Actor, id uint64) (*domain.Building, error) {
	building, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if building.ModelKey == "" {
		return nil, common.ErrNoModelFile
	}

	if err := s.repo.Update(ctx, id, map[string]interface{}{"model_key": "", "model_url": ""}); err != nil {
		return nil, err
	}
	s.media.Release(ctx, []string{building.ModelKey})
	return s.repo.FindByID(ctx, id)
}

func (s *buildingService) UpdateModelJSON(ctx context.Context, actor *domain.Actor, id uint64, req *domain.UpdateModelJSONRequest) (*domain.Building, error) {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkSceneJSON(req.JSON); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, map[string]interface{}{"model_json": req.JSON}); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// checkSceneJSON accepts an empty description or any well-formed JSON document
func checkSceneJSON(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if !json.Valid([]byte(raw)) {
		return common.Validation("json must be a valid JSON document")
	}
	return nil
}
