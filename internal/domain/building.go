package domain

import "time"

// Building represents the buildings table: a heritage site that articles may reference
type Building struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(200);not null;index" json:"name"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	Address     string    `gorm:"column:address;type:varchar(200);not null" json:"address"`
	Category    string    `gorm:"column:category;type:varchar(100);not null;index" json:"category"`
	Tags        string    `gorm:"column:tags;type:varchar(200)" json:"-"`
	Image       string    `gorm:"column:image;type:varchar(255)" json:"image"`
	ModelKey    string    `gorm:"column:model_key;type:varchar(255)" json:"-"`
	ModelURL    string    `gorm:"column:model_url;type:varchar(500)" json:"model_url"`
	ModelJSON   string    `gorm:"column:model_json;type:mediumtext" json:"json"`
	Markdown    string    `gorm:"column:markdown;type:mediumtext" json:"md"`
	CreatorID   string    `gorm:"column:creator_id;type:varchar(64);not null;index" json:"creator_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Building) TableName() string { return "buildings" }

// TagList splits the stored comma-joined tags
func (b *Building) TagList() []string {
	return SplitList(b.Tags)
}

// MediaKeys returns every stored object the building owns
func (b *Building) MediaKeys() []string {
	var keys []string
	if b.Image != "" {
		keys = append(keys, b.Image)
	}
	if b.ModelKey != "" {
		keys = append(keys, b.ModelKey)
	}
	return keys
}

// CreateBuildingRequest is the payload for registering a building
type CreateBuildingRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Address     string   `json:"address" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=100"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	Image       string   `json:"image" validate:"max=255"`
	ModelJSON   string   `json:"json"`
	Markdown    string   `json:"md"`
}

// UpdateBuildingRequest carries optional field changes; nil means unchanged
type UpdateBuildingRequest struct {
	Name        *string   `json:"name" validate:"omitempty,max=200"`
	Description *string   `json:"description"`
	Address     *string   `json:"address" validate:"omitempty,max=200"`
	Category    *string   `json:"category" validate:"omitempty,max=100"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Image       *string   `json:"image" validate:"omitempty,max=255"`
	ModelJSON   *string   `json:"json"`
	Markdown    *string   `json:"md"`
}

// UpdateModelJSONRequest replaces the scene description of a building model
type UpdateModelJSONRequest struct {
	JSON string `json:"json" validate:"required"`
}

// BuildingResponse is the API representation of a building
type BuildingResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image"`
	ModelURL    string    `json:"model_url"`
	ModelJSON   string    `json:"json"`
	Markdown    string    `json:"md"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToResponse converts the model to its API representation
func (b *Building) ToResponse() BuildingResponse {
	return BuildingResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Address:     b.Address,
		Category:    b.Category,
		Tags:        b.TagList(),
		Image:       b.Image,
		ModelURL:    b.ModelURL,
		ModelJSON:   b.ModelJSON,
		Markdown:    b.Markdown,
		CreatorID:   b.CreatorID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// BuildingModel is the 3D viewer payload for one building
type BuildingModel struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	ModelURL  *string   `json:"model_url"`
	JSON      string    `json:"json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToModel returns the viewer payload; model_url is null until a model file is uploaded
func (b *Building) ToModel() BuildingModel {
	m := BuildingModel{
		ID:        b.ID,
		Name:      b.Name,
		JSON:      b.ModelJSON,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.ModelURL != "" {
		url := b.ModelURL
		m.ModelURL = &url
	}
	return m
}

// BuildingListQuery is the raw building list request. Paging is parsed by the handler.
type BuildingListQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Creator  string `form:"creator"`
	Page     int    `form:"-"`
	PageSize int    `form:"-"`
}

// BuildingFilter is the resolved predicate set handed to the repository
type BuildingFilter struct {
	Search    string
	Category  string
	Tag       string
	CreatorID string
	Offset    int
	Limit     int
}

// BuildingPage is one page of a building list
type BuildingPage struct {
	Items    []BuildingResponse `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Next     *int               `json:"next"`
	Previous *int               `json:"previous"`
}
