package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pactumhq/pactum-backend/internal/http/response"
	"github.com/pactumhq/pactum-backend/internal/pkg/ctxutil"
	"github.com/pactumhq/pactum-backend/internal/services"
	"github.com/pactumhq/pactum-backend/internal/types"
	"github.com/pactumhq/pactum-backend/internal/validation"
)

type ContractHandler struct {
	contractService services.ContractService
	activityService services.ActivityService
	fileService     services.FileService
}

func NewContractHandler(
	contractService services.ContractService,
	activityService services.ActivityService,
	fileService services.FileService,
) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		activityService: activityService,
		fileService:     fileService,
	}
}

// GET /api/contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	contracts, err := h.contractService.ListContracts(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contracts": contracts})
}

// GET /api/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	contract, err := h.contractService.GetContract(c.Request.Context(), contractID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": contract})
}

// POST /api/contracts
// multipart form: title, content?, category?, templateId?, file?
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req validation.CreateContractRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}
	actor := ctxutil.GetActor(c.Request.Context())

	in := services.CreateContractInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	if req.TemplateID != "" {
		templateID, err := uuid.Parse(req.TemplateID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_error", err)
			return
		}
		in.TemplateID = &templateID
	}

	if header := formFile(c); header != nil {
		stored, err := h.saveUpload(c, header)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
			return
		}
		in.FileURL = &stored.URL
		in.FileName = &stored.Name
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), actor, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"contract": contract})
}

// POST /api/contracts/:id/versions
// multipart form: content?, file?  (at least one required)
func (h *ContractHandler) CreateVersion(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req validation.CreateVersionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}

	in := services.CreateVersionInput{Content: req.Content}
	if header := formFile(c); header != nil {
		stored, err := h.saveUpload(c, header)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
			return
		}
		in.FileURL = &stored.URL
		in.FileName = &stored.Name
	}
	if in.Content == "" && in.FileURL == nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New("content es obligatorio cuando no se adjunta un archivo"))
		return
	}

	actor := ctxutil.GetActor(c.Request.Context())
	version, err := h.contractService.CreateVersion(c.Request.Context(), actor, contractID, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"version": version})
}

// PATCH /api/contracts/:id/status
func (h *ContractHandler) UpdateStatus(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req validation.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}

	actor := ctxutil.GetActor(c.Request.Context())
	err := h.contractService.UpdateStatus(c.Request.Context(), actor, contractID, types.ContractStatus(req.Status))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/contracts/:id/finalize
func (h *ContractHandler) FinalizeContract(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	actor := ctxutil.GetActor(c.Request.Context())
	if err := h.contractService.FinalizeContract(c.Request.Context(), actor, contractID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/contracts/:id/assign
func (h *ContractHandler) AssignContract(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req validation.AssignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}

	actor := ctxutil.GetActor(c.Request.Context())
	if err := h.contractService.AssignContract(c.Request.Context(), actor, contractID, userID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /api/contracts/:id/content
func (h *ContractHandler) UpdateContent(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req validation.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}

	actor := ctxutil.GetActor(c.Request.Context())
	version, err := h.contractService.UpdateContent(c.Request.Context(), actor, contractID, req.Content)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version": version})
}

// POST /api/contracts/:id/sign
func (h *ContractHandler) SignContract(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req validation.SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}

	actor := ctxutil.GetActor(c.Request.Context())
	contract, err := h.contractService.SignContract(c.Request.Context(), actor, contractID, req.SignatureDataURL)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contract": contract})
}

// POST /api/contracts/:id/comments
func (h *ContractHandler) AddComment(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req validation.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(validation.Describe(err)))
		return
	}
	versionID, err := uuid.Parse(req.VersionID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error", err)
		return
	}

	actor := ctxutil.GetActor(c.Request.Context())
	comment, err := h.contractService.AddComment(c.Request.Context(), actor, contractID, versionID, req.Content)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"comment": comment})
}

// GET /api/comments/recent?limit=n
func (h *ContractHandler) RecentComments(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "validation_error",
				errors.New("limit no es válido"))
			return
		}
		limit = n
	}
	comments, err := h.contractService.RecentComments(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"comments": comments})
}

// GET /api/contracts/:id/activity
func (h *ContractHandler) ListActivity(c *gin.Context) {
	contractID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	entries, err := h.activityService.ListByContract(c.Request.Context(), contractID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"activity": entries})
}

func (h *ContractHandler) saveUpload(c *gin.Context, header *multipart.FileHeader) (*services.StoredFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return h.fileService.SaveFile(c.Request.Context(), header.Filename, header.Header.Get("Content-Type"), f)
}

// formFile returns the optional "file" part or nil. Empty uploads from blank
// form inputs are treated as absent.
func formFile(c *gin.Context) *multipart.FileHeader {
	header, err := c.FormFile("file")
	if err != nil || header == nil || header.Size == 0 {
		return nil
	}
	return header
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_error",
			errors.New(param+" no es un identificador válido"))
		return uuid.Nil, false
	}
	return id, true
}
