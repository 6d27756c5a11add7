package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
)

func TestBuildReportPDF(t *testing.T) {
	report := models.Report{
		ID:            primitive.NewObjectID(),
		PatientName:   "Ahmed",
		DoctorID:      "Saleem",
		BaldnessStage: "Stage 3",
		Status:        "Processed",
		CreatedAt:     time.Now(),
	}

	pdf, err := BuildReportPDF(report)
	require.NoError(t, err)
	require.NotEmpty(t, pdf)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBuildReportPDFIsDeterministicInput(t *testing.T) {
	// Two reports differing only in content still both render.
	for _, stage := range []string{"Stage 1", "Stage 7"} {
		pdf, err := BuildReportPDF(models.Report{PatientName: "A", DoctorID: "B", BaldnessStage: stage})
		require.NoError(t, err)
		assert.NotEmpty(t, pdf)
	}
}
