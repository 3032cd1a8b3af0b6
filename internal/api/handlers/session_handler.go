package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lexassist/lexassist/internal/services"
	"github.com/lexassist/lexassist/internal/utils"
)

type SessionHandler struct {
	svc services.SessionService
}

func NewSessionHandler(svc services.SessionService) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type StartSessionRequest struct {
	InitialText string `json:"initial_text" binding:"required"`
	Language    string `json:"language"`
}

func (h *SessionHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Start", "invalid request body", err))
		return
	}

	view, err := h.svc.StartSession(c.Request.Context(), userID, req.InitialText, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type SubmitAnswerRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
}

func (h *SessionHandler) Answer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Answer", "invalid request body", err))
		return
	}

	view, err := h.svc.SubmitAnswer(c.Request.Context(), userID, c.Param("session_id"), req.Text, req.Language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Voice accepts multipart form data: an optional "audio" file plus an
// optional "transcript" field. At least one must be present.
func (h *SessionHandler) Voice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	transcript := c.PostForm("transcript")
	language := c.PostForm("language")

	var audio []byte
	audioName := ""
	if fh, err := c.FormFile("audio"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Voice", "could not read audio file", err))
			return
		}
		defer f.Close()

		const maxAudio = 10 << 20
		audio, err = io.ReadAll(io.LimitReader(f, maxAudio))
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Voice", "could not read audio file", err))
			return
		}
		audioName = fh.Filename
	}

	view, err := h.svc.SubmitVoiceAnswer(c.Request.Context(), userID, c.Param("session_id"), audio, audioName, transcript, language)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) Evidence(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Evidence", "file is required", err))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "SessionHandler.Evidence", "could not read file", err))
		return
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	view, err := h.svc.UploadEvidence(c.Request.Context(), userID, c.Param("session_id"), fh.Filename, contentType, fh.Size, f)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	view, err := h.svc.GetSession(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteSession(c.Request.Context(), userID, c.Param("session_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
