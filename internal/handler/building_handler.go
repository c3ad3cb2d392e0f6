package handler

import (
	"net/http"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/internal/middleware"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// BuildingHandler handles building HTTP requests
type BuildingHandler struct {
	service service.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler
func NewBuildingHandler(service service.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: service}
}

// ListBuildings handles GET /api/v1/buildings
// @Summary List and search buildings, newest first
// @Tags buildings
// @Produce json
// @Param search query string false "case-insensitive match on name, description or address"
// @Param category query string false "exact category"
// @Param tag query string false "tag substring"
// @Param creator query string false "creator id"
// @Param page query int false "page (default 1)"
// @Param page_size query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.BuildingPage}
// @Router /buildings [get]
func (h *BuildingHandler) ListBuildings(c *gin.Context) {
	var q domain.BuildingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}
	q.Page = ginutil.QueryInt(c, "page", 1)
	q.PageSize = ginutil.QueryInt(c, "page_size", domain.DefaultPageSize)

	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page)
}

// ListMine handles GET /api/v1/buildings/mine
// @Summary List buildings I registered
// @Tags buildings
// @Produce json
// @Security BearerAuth
// @Param page query int false "page (default 1)"
// @Param page_size query int false "page size (default 10, max 100)"
// @Success 200 {object} common.APIResponse{data=domain.BuildingPage}
// @Failure 401 {object} common.APIResponse
// @Router /buildings/mine [get]
func (h *BuildingHandler) ListMine(c *gin.Context) {
	page, err := h.service.ListMine(c.Request.Context(), middleware.GetActor(c),
		ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "page_size", domain.DefaultPageSize))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, page)
}

// ListCategories handles GET /api/v1/buildings/categories
// @Summary Distinct building categories
// @Tags buildings
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]string}
// @Router /buildings/categories [get]
func (h *BuildingHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, categories)
}

// ListTags handles GET /api/v1/buildings/tags
// @Summary Distinct building tags
// @Tags buildings
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]string}
// @Router /buildings/tags [get]
func (h *BuildingHandler) ListTags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, tags)
}

// CreateBuilding handles POST /api/v1/buildings
// @Summary Register a building
// @Tags buildings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateBuildingRequest true "building"
// @Success 201 {object} common.APIResponse{data=domain.BuildingResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Router /buildings [post]
func (h *BuildingHandler) CreateBuilding(c *gin.Context) {
	var req domain.CreateBuildingRequest
	if !bindJSON(c, &req) {
		return
	}

	building, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.CreatedResponse(c, building.ToResponse())
}

// GetBuilding handles GET /api/v1/buildings/:id
// @Summary Get a building
// @Tags buildings
// @Produce json
// @Param id path int true "building ID"
// @Success 200 {object} common.APIResponse{data=domain.BuildingResponse}
// @Failure 404 {object} common.APIResponse
// @Router /buildings/{id} [get]
func (h *BuildingHandler) GetBuilding(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}

	building, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToResponse())
}

// GetModel handles GET /api/v1/buildings/:id/model
// @Summary 3D model details for the viewer
// @Tags buildings
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Success 200 {object} common.APIResponse{data=domain.BuildingModel}
// @Failure 401 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /buildings/{id}/model [get]
func (h *BuildingHandler) GetModel(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}

	building, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToModel())
}

// UpdateBuilding handles PUT /api/v1/buildings/:id
// @Summary Update a building
// @Description Only the creator or an admin may update.
// @Tags buildings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Param request body domain.UpdateBuildingRequest true "changed fields"
// @Success 200 {object} common.APIResponse{data=domain.BuildingResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /buildings/{id} [put]
func (h *BuildingHandler) UpdateBuilding(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}
	var req domain.UpdateBuildingRequest
	if !bindJSON(c, &req) {
		return
	}

	building, err := h.service.Update(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToResponse())
}

// DeleteBuilding handles DELETE /api/v1/buildings/:id
// @Summary Delete a building
// @Description Articles that referenced the building keep existing without a building.
// @Tags buildings
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /buildings/{id} [delete]
func (h *BuildingHandler) DeleteBuilding(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), id); err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// UploadImage handles POST /api/v1/buildings/:id/image
// @Summary Upload the building image
// @Tags buildings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Param file formData file true "image file"
// @Success 200 {object} common.APIResponse{data=domain.BuildingResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /buildings/{id}/image [post]
func (h *BuildingHandler) UploadImage(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}
	upload, closer, ok := formFile(c)
	if !ok {
		return
	}
	defer closer.Close()

	building, err := h.service.AttachImage(c.Request.Context(), middleware.GetActor(c), id, upload)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToResponse())
}

// UploadModel handles POST /api/v1/buildings/:id/model
// @Summary Upload the 3D model file
// @Tags buildings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Param file formData file true "glb, gltf, obj, stl, fbx or usdz"
// @Param json formData string false "scene description stored with the model"
// @Success 200 {object} common.APIResponse{data=domain.BuildingModel}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /buildings/{id}/model [post]
func (h *BuildingHandler) UploadModel(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}
	upload, closer, ok := formFile(c)
	if !ok {
		return
	}
	defer closer.Close()

	var scene *string
	if v, ok := c.GetPostForm("json"); ok {
		scene = &v
	}

	building, err := h.service.AttachModel(c.Request.Context(), middleware.GetActor(c), id, upload, scene)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToModel())
}

// DeleteModel handles DELETE /api/v1/buildings/:id/model
// @Summary Remove the 3D model file
// @Tags buildings
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Success 200 {object} common.APIResponse{data=domain.BuildingModel}
// @Failure 403 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Router /buildings/{id}/model [delete]
func (h *BuildingHandler) DeleteModel(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}

	building, err := h.service.RemoveModel(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToModel())
}

// UpdateModelJSON handles PUT /api/v1/buildings/:id/json
// @Summary Replace the scene description of the model
// @Tags buildings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "building ID"
// @Param request body domain.UpdateModelJSONRequest true "scene JSON"
// @Success 200 {object} common.APIResponse{data=domain.BuildingModel}
// @Failure 400 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Router /buildings/{id}/json [put]
func (h *BuildingHandler) UpdateModelJSON(c *gin.Context) {
	id, ok := paramID(c, "id", "building")
	if !ok {
		return
	}
	var req domain.UpdateModelJSONRequest
	if !bindJSON(c, &req) {
		return
	}

	building, err := h.service.UpdateModelJSON(c.Request.Context(), middleware.GetActor(c), id, &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessResponse(c, building.ToModel())
}
