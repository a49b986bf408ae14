package controllers

import (
	"net/http"
	"strconv"

	"blog-admin/internal/apperrors"
	"blog-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

type QRCodeController struct {
	postService service.PostService
	frontendURL string
}

func NewQRCodeController(postService service.PostService, frontendURL string) *QRCodeController {
	return &QRCodeController{
		postService: postService,
		frontendURL: frontendURL,
	}
}

// PostURL is the public address of a post on the blog frontend
func (qc *QRCodeController) PostURL(id string) string {
	return qc.frontendURL + "/posts/" + id
}

// GenerateQRCode handles GET /posts/:id/qrcode - PNG QR code of the post's public URL
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, apperrors.ErrUnauthenticated)
		return
	}

	// Only the owner may generate a code, and only for an existing post
	post, err := qc.postService.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	size := defaultQRSize
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < minQRSize || parsed > maxQRSize {
			respondError(c, apperrors.NewValidationError("size", "must be an integer between 128 and 1024"))
			return
		}
		size = parsed
	}

	// Medium error recovery
	pngData, err := qrcode.Encode(qc.PostURL(post.ID), qrcode.Medium, size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename=post-"+post.ID+".png")
	c.Data(http.StatusOK, "image/png", pngData)
}
