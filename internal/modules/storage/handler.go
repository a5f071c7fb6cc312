package storage

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"internhub/internal/pkg/response"
)

// Handler exposes the multipart upload endpoint.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Upload handles POST /upload. The form carries the file, the applicant's
// name, the attachment category and optionally a session timestamp so both
// attachments of one submission share a folder.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}

	ownerName := c.PostForm("owner_name")
	if ownerName == "" {
		response.Error(c, http.StatusBadRequest, "NO_OWNER", "owner_name is required")
		return
	}

	category := c.PostForm("category")

	sessionTS := time.Now().UnixMilli()
	if raw := c.PostForm("session_ts"); raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ts <= 0 {
			response.Error(c, http.StatusBadRequest, "INVALID_SESSION", "session_ts must be a positive unix timestamp")
			return
		}
		sessionTS = ts
	}

	objectURL, err := h.store.Upload(fileHeader, ownerName, category, sessionTS)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCategory):
			response.Error(c, http.StatusBadRequest, "INVALID_CATEGORY", "category must be signature or id_document")
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "STORAGE_ERROR", "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"url": objectURL})
}
