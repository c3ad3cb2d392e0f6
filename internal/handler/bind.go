package handler

import (
	"io"
	"net/http"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/service"
	"github.com/buildlore/heritage-backend/pkg/ginutil"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	// request structs are closed: unknown keys are a client bug, not something to ignore
	binding.EnableDecoderDisallowUnknownFields = true
}

// bindJSON decodes the body into obj, writing a 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), err)
		return false
	}
	return true
}

// paramID parses a positive numeric path parameter, writing a 400 on failure
func paramID(c *gin.Context, name, label string) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, name)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid "+label+" ID", err)
		return 0, false
	}
	return id, true
}

// formFile opens the multipart "file" field, writing a 400 on failure.
// The caller closes the returned closer.
func formFile(c *gin.Context) (*service.MediaUpload, io.Closer, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file is required", err)
		return nil, nil, false
	}
	src, err := file.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "cannot read uploaded file", err)
		return nil, nil, false
	}
	return &service.MediaUpload{Filename: file.Filename, Size: file.Size, Body: src}, src, true
}
