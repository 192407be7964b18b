// cmd/web/main.go
package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/julytbn/achats-import/internal/api/handlers"
	"github.com/julytbn/achats-import/internal/api/middleware"
	"github.com/julytbn/achats-import/internal/api/responses"
	"github.com/julytbn/achats-import/internal/config"
	"github.com/julytbn/achats-import/internal/core/ingestion"
	"github.com/julytbn/achats-import/internal/core/spreadsheet"
	"github.com/julytbn/achats-import/internal/core/suppliers"
)

func main() {
	responses.InitLogger()
	cfg := config.Load()

	vocabulary := ingestion.DefaultVocabulary()
	if cfg.VocabularyFile != "" {
		loaded, err := ingestion.LoadVocabularyFile(cfg.VocabularyFile)
		if err != nil {
			log.Fatalf("Vocabulaire invalide (%s): %v", cfg.VocabularyFile, err)
		}
		vocabulary = loaded
		log.Printf("Vocabulaire chargé depuis %s", cfg.VocabularyFile)
	}

	ingestionService := ingestion.NewService(vocabulary)
	spreadsheetService := spreadsheet.NewService()
	suppliersService := suppliers.NewService()
	importHandler := handlers.NewImportHandler(ingestionService, spreadsheetService, suppliersService)

	router := gin.Default()
	router.Use(middleware.CORS(cfg.AllowedOrigin))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/imports/achats", importHandler.HandleAchatsImport)
	}
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	log.Printf("🚀 Serveur démarré sur le port %s", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Échec du démarrage du serveur: ", err)
	}
}
