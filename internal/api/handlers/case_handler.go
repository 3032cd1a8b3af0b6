package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexassist/lexassist/internal/services"
	"github.com/lexassist/lexassist/internal/utils"
)

type CaseHandler struct {
	svc services.CaseService
}

func NewCaseHandler(svc services.CaseService) *CaseHandler {
	return &CaseHandler{svc: svc}
}

type CreateCaseRequest struct {
	IssueType          string            `json:"issue_type" binding:"required"`
	SubCategory        *string           `json:"sub_category"`
	SuggestedAuthority *string           `json:"suggested_authority"`
	Entities           map[string]string `json:"entities"`
}

func (h *CaseHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CaseHandler.Create", "invalid request body", err))
		return
	}

	view, err := h.svc.CreateCase(c.Request.Context(), userID, services.CreateCaseInput{
		IssueType:          req.IssueType,
		SubCategory:        req.SubCategory,
		SuggestedAuthority: req.SuggestedAuthority,
		Entities:           req.Entities,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CaseHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetCase(c.Request.Context(), userID, c.Param("case_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *CaseHandler) List(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	views, err := h.svc.ListCases(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cases": views})
}

func (h *CaseHandler) ConfirmEntity(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	err := h.svc.ConfirmEntity(c.Request.Context(), userID, c.Param("case_id"), c.Param("field"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirmed": true})
}

func (h *CaseHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCase(c.Request.Context(), userID, c.Param("case_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
