package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nemora-backend/internal/models"
	"nemora-backend/internal/store"
)

// UploadMirror copies a stored upload somewhere else, e.g. a storage bucket.
type UploadMirror interface {
	MirrorUpload(storedName, localPath string) (string, error)
}

type UploadHandler struct {
	store     *store.Store
	mirror    UploadMirror
	publicURL string
	logger    *zap.Logger
}

// NewUploadHandler builds the handler. mirror may be nil.
func NewUploadHandler(s *store.Store, mirror UploadMirror, publicURL string, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{
		store:     s,
		mirror:    mirror,
		publicURL: publicURL,
		logger:    logger,
	}
}

// Upload godoc
// @Summary     Upload a design file
// @Description Stores one file from the multipart field "file" and returns its public URL.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "Design file"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "No file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	storedName, err := h.store.SaveUpload(fileHeader.Filename, file)
	if err != nil {
		h.logger.Error("failed to store upload", zap.String("filename", fileHeader.Filename), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to store file",
			Message: err.Error(),
		})
		return
	}

	if h.mirror != nil {
		// The local copy stays authoritative; a failed mirror only gets logged.
		if mirrored, err := h.mirror.MirrorUpload(storedName, h.store.UploadPath(storedName)); err != nil {
			h.logger.Warn("upload mirror failed", zap.String("stored_name", storedName), zap.Error(err))
		} else {
			h.logger.Debug("upload mirrored", zap.String("stored_name", storedName), zap.String("url", mirrored))
		}
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		URL:      publicBase(c, h.publicURL) + "/uploads/" + storedName,
		Filename: fileHeader.Filename,
	})
}
