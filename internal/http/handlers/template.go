package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pactumhq/pactum-backend/internal/http/response"
	"github.com/pactumhq/pactum-backend/internal/services"
	"github.com/pactumhq/pactum-backend/internal/validation"
)

type TemplateHandler struct {
	templateService services.TemplateService
	fileService     services.FileService
}

func NewTemplateHandler(templateService services.TemplateService, fileService services.FileService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		fileService:     fileService,
	}
}

// GET /api/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"templates": templates})
}

// GET /api/templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	template, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"template": template})
}

// POST /api/templates
// multipart form: name, description?, content?, file?
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req validation.CreateTemplateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}

	in := services.CreateTemplateInput{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
	}
	if header := formFile(c); header != nil {
		f, err := header.Open()
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "upload_failed", err)
			return
		}
		defer f.Close()
		stored, err := h.fileService.SaveFile(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), f)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
			return
		}
		in.FileURL = &stored.URL
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"template": template})
}

// DELETE /api/templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.templateService.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
