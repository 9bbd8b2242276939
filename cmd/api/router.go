package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-backend/internal/shared/middleware"
	"journal-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAccountRoutes(v1, c)
		setupSubmissionRoutes(v1, c)
		setupReviewerRoutes(v1, c)
		setupAssignmentRoutes(v1, c)
		setupReviewRoutes(v1, c)
		setupDecisionRoutes(v1, c)
		setupPublicationRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupWebhookRoutes(v1, c)
		setupAuditRoutes(v1, c)
		setupPublicRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", c.AccountHandler.Login)
	}
}

// ========================================
// ACCOUNT ROUTES (admin)
// ========================================
func setupAccountRoutes(v1 *gin.RouterGroup, c *container.Container) {
	accounts := v1.Group("/accounts")
	accounts.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())
	{
		accounts.POST("", c.AccountHandler.CreateAccount)
		accounts.GET("", c.AccountHandler.ListAccounts)
		accounts.PATCH("/:id/role", c.AccountHandler.ChangeRole)
	}
}

// ========================================
// SUBMISSION ROUTES
// ========================================
func setupSubmissionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	submissions := v1.Group("/submissions")
	submissions.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		submissions.POST("", c.SubmissionHandler.CreateSubmission)
		submissions.GET("", c.SubmissionHandler.ListSubmissions)
		submissions.GET("/export", c.SubmissionHandler.ExportSubmissions)
		submissions.GET("/:id", c.SubmissionHandler.GetSubmission)
		submissions.PATCH("/:id/pipeline", c.SubmissionHandler.UpdatePipeline)
	}
}

// ========================================
// REVIEWER ROUTES
// ========================================
func setupReviewerRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviewers := v1.Group("/reviewers")
	reviewers.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		reviewers.POST("", c.ReviewerHandler.CreateReviewer)
		reviewers.GET("", c.ReviewerHandler.ListReviewers)
		reviewers.GET("/:id", c.ReviewerHandler.GetReviewer)
		reviewers.GET("/:id/certificate", c.ReviewerHandler.Certificate)
		reviewers.PATCH("/:id", c.ReviewerHandler.UpdateReviewer)
		reviewers.DELETE("/:id", c.ReviewerHandler.DeactivateReviewer)
	}
}

// ========================================
// ASSIGNMENT ROUTES
// ========================================
func setupAssignmentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	assignments := v1.Group("/assignments")
	assignments.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		assignments.POST("", c.AssignmentHandler.CreateAssignment)
		assignments.GET("", c.AssignmentHandler.ListAssignments)
		assignments.GET("/:id", c.AssignmentHandler.GetAssignment)
		assignments.PATCH("/:id", c.AssignmentHandler.UpdateAssignment)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reviews := v1.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		reviews.POST("", c.ReviewHandler.SubmitReview)
		reviews.GET("", c.ReviewHandler.ListReviews)
		reviews.GET("/:id", c.ReviewHandler.GetReview)
		reviews.PATCH("/:id", c.ReviewHandler.FlagReview)
	}
}

// ========================================
// DECISION ROUTES
// ========================================
func setupDecisionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	decisions := v1.Group("/decisions")
	decisions.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		decisions.POST("", c.DecisionHandler.Decide)
	}
}

// ========================================
// PUBLICATION ROUTES
// ========================================
func setupPublicationRoutes(v1 *gin.RouterGroup, c *container.Container) {
	publications := v1.Group("/publications")
	publications.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		publications.POST("", c.PublicationHandler.Publish)
		publications.GET("", c.PublicationHandler.ListArticles)
		publications.GET("/:id", c.PublicationHandler.GetArticle)
		publications.GET("/:id/certificate", c.PublicationHandler.Certificate)
		publications.PATCH("/:id", c.PublicationHandler.UpdateArticle)
		publications.DELETE("/:id", c.PublicationHandler.ArchiveArticle)

		publications.GET("/by-submission/:submissionId", c.PublicationHandler.GetBySubmission)
		publications.PATCH("/by-submission/:submissionId", c.PublicationHandler.SetStatusBySubmission)
		publications.POST("/by-submission/:submissionId/deduplicate", c.PublicationHandler.Deduplicate)
	}
}

// ========================================
// PAYMENT ROUTES
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	payments := v1.Group("/payments")
	payments.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		payments.POST("/payment-link", c.PaymentHandler.CreatePaymentLink)
	}
}

// ========================================
// WEBHOOK ROUTES
// ========================================
// Signature-verified, no session auth.
func setupWebhookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/stripe", c.PaymentHandler.StripeWebhook)
	}
}

// ========================================
// AUDIT ROUTES
// ========================================
func setupAuditRoutes(v1 *gin.RouterGroup, c *container.Container) {
	audit := v1.Group("/audit")
	audit.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		audit.GET("", c.AuditHandler.ListRecent)
	}
}

// ========================================
// PUBLIC ROUTES
// ========================================
// Reader-facing article lookup, no auth.
func setupPublicRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/articles/:slug", c.PublicationHandler.GetArticleBySlug)
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
