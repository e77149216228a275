package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	handler "consignment-reconciliation-backend/internal/handlers"
	"consignment-reconciliation-backend/internal/repository"
	service "consignment-reconciliation-backend/internal/services/analysis"
	"consignment-reconciliation-backend/internal/services/extraction"
	"consignment-reconciliation-backend/internal/services/merge"
	"consignment-reconciliation-backend/internal/services/progress"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log zerolog.Logger, progressStore *progress.Store) {
	analysisRepo := repository.NewAnalysisRepository(db)
	rulesRepo := repository.NewPaymentRulesRepository(db)

	extractor := extraction.NewService(extraction.PlainText{}, log)
	merger := merge.NewEngine(log)

	analysisService := service.NewService(
		analysisRepo,
		rulesRepo,
		extractor,
		merger,
		progressStore,
		log,
	)

	analysisHandler := handler.NewAnalysisHandler(analysisService)
	exportHandler := handler.NewExportHandler(analysisService)
	rulesHandler := handler.NewRulesHandler(rulesRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Analysis routes
	analyses := api.Group("/analyses")
	analyses.POST("/upload", analysisHandler.Upload)
	analyses.POST("", analysisHandler.CreateManualAnalysis)
	analyses.GET("", analysisHandler.ListAnalyses)
	analyses.GET("/:id", analysisHandler.GetAnalysis)
	analyses.DELETE("/:id", analysisHandler.DeleteAnalysis)
	analyses.POST("/:id/entries", analysisHandler.AddEntry)
	analyses.GET("/:id/export/csv", exportHandler.ExportCSV)
	analyses.GET("/:id/export/json", exportHandler.ExportJSON)
	analyses.GET("/:id/export/xlsx", exportHandler.ExportXLSX)
	analyses.GET("/:id/export/pdf", exportHandler.ExportPDF)

	// Submission progress
	submissions := api.Group("/submissions")
	submissions.GET("/:id/progress", analysisHandler.GetProgress)

	// Payment rules
	rules := api.Group("/rules")
	{
		rules.POST("", rulesHandler.CreateRules)
		rules.GET("/active", rulesHandler.GetActiveRules)
	}
}
