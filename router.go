package main

import (
	"net/http"

	"blog-admin/internal/controllers"
	"blog-admin/internal/jwt"
	"blog-admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routerDeps struct {
	jwtService *jwt.JWTService

	authController   *controllers.AuthController
	postController   *controllers.PostController
	uploadController *controllers.UploadController
	qrcodeController *controllers.QRCodeController

	generalRateLimiter *middleware.RateLimiter
	authRateLimiter    *middleware.RateLimiter

	metrics  *middleware.Metrics
	gatherer prometheus.Gatherer
}

func setupRouter(d routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), d.metrics.Middleware())

	// Health check and metrics (no rate limiting)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{})))

	api := router.Group("")
	api.Use(d.generalRateLimiter.LimitMiddleware())
	{
		// Auth routes with stricter rate limiting on login
		auth := api.Group("/auth")
		{
			auth.POST("/login", d.authRateLimiter.LimitMiddleware(), d.authController.Login)
			auth.POST("/logout", d.authController.Logout)
			auth.GET("/session", d.authController.Session)
		}

		// Protected routes - require a valid session
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(d.jwtService))
		{
			protected.GET("/posts", d.postController.ListPosts)
			protected.POST("/posts", d.postController.CreatePost)
			protected.GET("/posts/:id", d.postController.GetPost)
			protected.PATCH("/posts/:id", d.postController.UpdatePost)
			protected.DELETE("/posts/:id", d.postController.DeletePost)
			protected.GET("/posts/:id/qrcode", d.qrcodeController.GenerateQRCode)

			protected.POST("/upload", d.uploadController.Upload)
			protected.POST("/upload/presign", d.uploadController.Presign)
			protected.DELETE("/upload", d.uploadController.Delete)
		}
	}

	return router
}
