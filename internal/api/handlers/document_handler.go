package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexassist/lexassist/internal/services"
	"github.com/lexassist/lexassist/internal/utils"
)

type DocumentHandler struct {
	svc services.DocumentService
}

func NewDocumentHandler(svc services.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

type GenerateDocumentRequest struct {
	SessionID   string            `json:"session_id"`
	IssueType   string            `json:"issue_type"`
	SubCategory string            `json:"sub_category"`
	Language    string            `json:"language"`
	Intent      string            `json:"intent"`
	Facts       map[string]string `json:"facts"`
}

func (h *DocumentHandler) Generate(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "DocumentHandler.Generate", "invalid request body", err))
		return
	}

	doc, err := h.svc.Generate(c.Request.Context(), userID, services.GenerateDocumentInput{
		SessionID:   req.SessionID,
		IssueType:   req.IssueType,
		SubCategory: req.SubCategory,
		Language:    req.Language,
		Intent:      req.Intent,
		Facts:       req.Facts,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("X-Document-Type", doc.DocumentType)
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func (h *DocumentHandler) Verify(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	verdict, err := h.svc.Verify(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, verdict)
}
