package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexassist/lexassist/internal/services"
	"github.com/lexassist/lexassist/internal/utils"
)

type TemplateHandler struct {
	svc services.TemplateService
}

func NewTemplateHandler(svc services.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

func (h *TemplateHandler) Create(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	var req services.CreateTemplateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "TemplateHandler.Create", "invalid request body", err))
		return
	}

	tpl, err := h.svc.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, tpl)
}
