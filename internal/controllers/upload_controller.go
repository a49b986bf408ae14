package controllers

import (
	"net/http"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/service"

	"github.com/gin-gonic/gin"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{
		uploadService: uploadService,
	}
}

// Upload handles POST /upload?filename= with the raw file as the request body
func (uc *UploadController) Upload(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	response, err := uc.uploadService.Upload(
		c.Request.Context(),
		userID,
		c.Query("filename"),
		c.ContentType(),
		c.Request.Body,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Presign handles POST /upload/presign?contentType=
func (uc *UploadController) Presign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	response, err := uc.uploadService.Presign(c.Request.Context(), userID, c.Query("contentType"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /upload?key=
func (uc *UploadController) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	if err := uc.uploadService.Delete(c.Request.Context(), userID, c.Query("key")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
