package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Umar-fr/TextGuard-Plagiarism/internal/config"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/extract"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/models"
	"github.com/Umar-fr/TextGuard-Plagiarism/internal/plagiarism"
)

// Handler holds dependencies for handlers
type Handler struct {
	cfg     *config.Config
	service *plagiarism.Service
}

// NewHandler creates a new handler
func NewHandler(cfg *config.Config, service *plagiarism.Service) *Handler {
	return &Handler{
		cfg:     cfg,
		service: service,
	}
}

// CheckTextRequest is the body of POST /api/v1/check-text
type CheckTextRequest struct {
	Text             string `json:"text"`
	UserRef          string `json:"userRef"`
	TopK             int    `json:"topK"`
	UseSemantic      bool   `json:"useSemantic"`
	MaxPhrases       int    `json:"maxPhrases"`
	MaxCandidateURLs int    `json:"maxCandidateUrls"`
}

// IndexTextRequest is the body of POST /api/v1/index-text
type IndexTextRequest struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (h *Handler) CheckText(c *gin.Context) {
	var req CheckTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	opts := h.checkOptions(c, req)
	report, err := h.service.CheckText(c.Request.Context(), req.Text, opts)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) CheckFile(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	req := CheckTextRequest{
		UserRef:          c.PostForm("userRef"),
		TopK:             formInt(c, "topK"),
		UseSemantic:      c.PostForm("useSemantic") == "true",
		MaxPhrases:       formInt(c, "maxPhrases"),
		MaxCandidateURLs: formInt(c, "maxCandidateUrls"),
	}

	opts := h.checkOptions(c, req)
	report, err := h.service.CheckDocument(c.Request.Context(), filename, data, opts)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) IndexText(c *gin.Context) {
	var req IndexTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid request body",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	docID, err := h.service.IndexText(c.Request.Context(), req.Label, req.Text)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"docId": docID})
}

func (h *Handler) IndexFile(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	docID, err := h.service.IndexDocument(c.Request.Context(), filename, data)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"docId": docID})
}

func (h *Handler) ListDocs(c *gin.Context) {
	docs, err := h.service.ListDocs(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list documents")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to list documents",
			Code:  "INTERNAL_ERROR",
		})
		return
	}
	if docs == nil {
		docs = []*models.Page{}
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": docs,
		"count":     len(docs),
	})
}

func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.ClearCorpus(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to clear corpus")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to clear corpus",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) checkOptions(c *gin.Context, req CheckTextRequest) models.CheckOptions {
	userRef := req.UserRef
	if ref, exists := c.Get("user_ref"); exists && userRef == "" {
		userRef = ref.(string)
	}
	return models.CheckOptions{
		MaxPhrases:       req.MaxPhrases,
		MaxCandidateURLs: req.MaxCandidateURLs,
		UseSemantic:      req.UseSemantic,
		TopK:             req.TopK,
		UserRef:          userRef,
	}
}

// readUpload reads the "file" part of a multipart request, bounded by the
// configured text size limit.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Multipart field 'file' is required",
			Code:  "INVALID_REQUEST",
		})
		return "", nil, false
	}
	if fileHeader.Size > int64(h.cfg.MaxTextBytes) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "File exceeds the configured size limit",
			Code:  "FILE_TOO_LARGE",
		})
		return "", nil, false
	}

	data, err := readMultipartFile(fileHeader)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Failed to read uploaded file",
			Code:  "INTERNAL_ERROR",
		})
		return "", nil, false
	}

	return fileHeader.Filename, data, true
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeServiceError maps input errors to 400, everything else to 500.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, plagiarism.ErrEmptyText):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Text must not be empty",
			Code:  "EMPTY_TEXT",
		})
	case errors.Is(err, plagiarism.ErrTextTooLarge):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Text exceeds the configured size limit",
			Code:  "TEXT_TOO_LARGE",
		})
	case errors.Is(err, plagiarism.ErrNoExtractableText):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Could not extract text from the uploaded document",
			Code:  "UNREADABLE_DOCUMENT",
		})
	case errors.Is(err, extract.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Unsupported document format",
			Code:  "UNSUPPORTED_FORMAT",
		})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal error",
			Code:  "INTERNAL_ERROR",
		})
	}
}

func formInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.PostForm(key))
	if err != nil {
		return 0
	}
	return n
}
