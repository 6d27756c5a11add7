package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
)

// AccountRecord is the admin-facing projection of an account.
type AccountRecord struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	Specialization string `json:"specialization,omitempty"`
	DegreePath     string `json:"degree_path,omitempty"`
}

// ListUsers returns every account for the admin verification queue.
func (h *Handler) ListUsers(c *gin.Context) {
	collection := h.DB.Collection("users")
	cursor, err := collection.Find(context.TODO(), bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(context.TODO())

	var users []models.User
	if err = cursor.All(context.TODO(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	records := make([]AccountRecord, 0, len(users))
	for _, user := range users {
		status := user.Status
		if status == "" {
			status = models.StatusActive
		}
		records = append(records, AccountRecord{
			ID:             user.ID.Hex(),
			FullName:       user.FullName,
			Email:          user.Email,
			Phone:          user.Phone,
			Role:           user.Role,
			Status:         status,
			Specialization: user.Specialization,
			DegreePath:     user.DegreePath,
		})
	}

	c.JSON(http.StatusOK, records)
}

// VerifyDoctor sets an account status. The UI only offers Pending -> Verified;
// repeating the call is a no-op.
func (h *Handler) VerifyDoctor(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if req.Status != models.StatusVerified && req.Status != models.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}

	collection := h.DB.Collection("users")
	result, err := collection.UpdateOne(context.TODO(),
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"status": req.Status}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

// DeleteUser removes an account at any status.
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	collection := h.DB.Collection("users")
	result, err := collection.DeleteOne(context.TODO(), bson.M{"_id": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
