package handlers

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/config"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/services"
)

// Handler bundles the dependencies every route needs.
type Handler struct {
	DB       *mongo.Database
	Mailer   services.Mailer
	Analyzer services.Analyzer
	Cfg      config.Config
}

func NewHandler(db *mongo.Database, mailer services.Mailer, analyzer services.Analyzer, cfg config.Config) *Handler {
	return &Handler{
		DB:       db,
		Mailer:   mailer,
		Analyzer: analyzer,
		Cfg:      cfg,
	}
}
