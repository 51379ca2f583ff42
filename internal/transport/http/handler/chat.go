package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutorchat/internal/app"
	"tutorchat/internal/transport/http/response"
)

type ChatHandler struct {
	tutorService *app.TutorService
}

type ChatRequest struct {
	Message string `json:"message"`
}

func NewChatHandler(tutorService *app.TutorService) *ChatHandler {
	return &ChatHandler{tutorService: tutorService}
}

func (h *ChatHandler) Ask(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		response.Error(c, http.StatusBadRequest, "Message is required")
		return
	}

	reply, err := h.tutorService.Ask(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, "Message is required")
		default:
			// Upstream detail stays in the log; the caller gets a fixed message.
			log.Printf("chat completion failed: %v", err)
			response.Error(c, http.StatusInternalServerError, "chat completion failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) AskStream(c *gin.Context) {
	if _, ok := getUserIDFromContext(c); !ok {
		response.Error(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		response.Error(c, http.StatusBadRequest, "Message is required")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, http.StatusInternalServerError, "stream not supported")
		return
	}

	full, err := h.tutorService.AskStream(c.Request.Context(), req.Message, func(chunk string) error {
		if _, writeErr := c.Writer.Write([]byte("data: " + sanitizeSSE(chunk) + "\n\n")); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		log.Printf("chat stream failed: %v", err)
		if _, writeErr := c.Writer.Write([]byte("event: error\ndata: chat completion failed\n\n")); writeErr == nil {
			flusher.Flush()
		}
		return
	}

	if _, writeErr := c.Writer.Write([]byte(fmt.Sprintf("event: done\ndata: %s\n\n", sanitizeSSE(full)))); writeErr == nil {
		flusher.Flush()
	}
}

func sanitizeSSE(input string) string {
	replaced := strings.ReplaceAll(input, "\r\n", "\\n")
	replaced = strings.ReplaceAll(replaced, "\n", "\\n")
	return replaced
}
