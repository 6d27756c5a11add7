package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/services"
)

// subjectMatches reports whether the authenticated caller may act for the
// given display name. Admins may act for anyone.
func subjectMatches(c *gin.Context, name string) bool {
	userRole, _ := c.Get("userRole")
	if userRole == models.RoleAdmin {
		return true
	}
	userName, _ := c.Get("userName")
	return userName == name
}

func nameFilter(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}

// --- UPLOAD SCAN (Patient) ---
func (h *Handler) UploadScan(c *gin.Context) {
	patientName := c.PostForm("patientName")
	doctorID := c.PostForm("doctorId")
	if patientName == "" || doctorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patientName and doctorId are required"})
		return
	}
	if !subjectMatches(c, patientName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Patients may only upload their own scans."})
		return
	}

	image, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scan image is required"})
		return
	}

	imagePath, err := h.saveUpload(c, image, "scans")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	scan := models.Scan{
		ID:          primitive.NewObjectID(),
		PatientName: patientName,
		DoctorID:    doctorID,
		ImagePath:   imagePath,
		Status:      models.ScanPending,
		UploadedAt:  time.Now(),
	}

	collection := h.DB.Collection("scans")
	if _, err := collection.InsertOne(context.TODO(), scan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success"})
}

// --- PROCESS A PENDING SCAN (Doctor) ---
// Pending -> Processed is the only transition; Processed is terminal, so a
// second call reports a conflict and no duplicate report is written.
func (h *Handler) ProcessPatientScan(c *gin.Context) {
	scanID, err := primitive.ObjectIDFromHex(c.Param("scanId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scan ID"})
		return
	}

	scans := h.DB.Collection("scans")
	var scan models.Scan
	if err := scans.FindOne(context.TODO(), bson.M{"_id": scanID}).Decode(&scan); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan not found"})
		return
	}
	if !subjectMatches(c, scan.DoctorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Scan is assigned to another doctor."})
		return
	}
	if scan.Status == models.ScanProcessed {
		c.JSON(http.StatusConflict, gin.H{"error": "Scan already processed"})
		return
	}

	stage, err := h.Analyzer.PredictStage(c.Request.Context(), h.diskPath(scan.ImagePath))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report := models.Report{
		ID:            primitive.NewObjectID(),
		ScanID:        scan.ID.Hex(),
		PatientName:   scan.PatientName,
		DoctorID:      scan.DoctorID,
		ImagePath:     scan.ImagePath,
		BaldnessStage: fmt.Sprintf("Stage %d", stage),
		Status:        models.ScanProcessed,
		CreatedAt:     time.Now(),
	}
	if _, err := h.DB.Collection("reports").InsertOne(context.TODO(), report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	_, err = scans.UpdateOne(context.TODO(),
		bson.M{"_id": scanID},
		bson.M{"$set": bson.M{"status": models.ScanProcessed}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "stage": report.BaldnessStage})
}

// --- DOCTOR QUEUE (Pending scans + completed reports) ---
func (h *Handler) DoctorData(c *gin.Context) {
	doctorName := c.Param("name")
	if !subjectMatches(c, doctorName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	doctorMatch := nameFilter(doctorName)

	scans, err := h.findScans(bson.M{"doctorId": doctorMatch, "status": models.ScanPending})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scans"})
		return
	}
	reports, err := h.findReports(bson.M{"doctorId": doctorMatch})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans, "reports": reports})
}

// --- PATIENT HISTORY (own scans + own reports) ---
func (h *Handler) PatientData(c *gin.Context) {
	patientName := c.Param("name")
	if !subjectMatches(c, patientName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	filter := bson.M{"patientName": patientName}

	scans, err := h.findScans(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scans"})
		return
	}
	reports, err := h.findReports(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scans": scans, "reports": reports})
}

// --- DIRECT WALK-IN ANALYSIS (Doctor, nothing persisted) ---
func (h *Handler) ProcessDirect(c *gin.Context) {
	image, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scan image is required"})
		return
	}

	ext := filepath.Ext(image.Filename)
	tmpPath := filepath.Join(os.TempDir(), uuid.NewString()+ext)
	if err := c.SaveUploadedFile(image, tmpPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}
	defer os.Remove(tmpPath)

	count, density, err := h.Analyzer.AnalyzeDensity(c.Request.Context(), tmpPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count, "density": density})
}

// --- EXPORT REPORT AS PDF ---
func (h *Handler) ExportReport(c *gin.Context) {
	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var report models.Report
	if err := h.DB.Collection("reports").FindOne(context.TODO(), bson.M{"_id": reportID}).Decode(&report); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if !subjectMatches(c, report.PatientName) && !subjectMatches(c, report.DoctorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	pdfBytes, err := services.BuildReportPDF(report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render report"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=report-%s.pdf", report.ID.Hex()))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *Handler) findScans(filter bson.M) ([]models.Scan, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploadedAt", Value: -1}})
	cursor, err := h.DB.Collection("scans").Find(context.TODO(), filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	scans := make([]models.Scan, 0)
	if err := cursor.All(context.TODO(), &scans); err != nil {
		return nil, err
	}
	return scans, nil
}

func (h *Handler) findReports(filter bson.M) ([]models.Report, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.DB.Collection("reports").Find(context.TODO(), filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	reports := make([]models.Report, 0)
	if err := cursor.All(context.TODO(), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
