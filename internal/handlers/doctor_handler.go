package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
)

// ListDoctors returns the verified doctors a patient can route a scan to.
func (h *Handler) ListDoctors(c *gin.Context) {
	collection := h.DB.Collection("users")
	cursor, err := collection.Find(context.TODO(), bson.M{
		"role":   models.RoleDoctor,
		"status": models.StatusVerified,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve doctors"})
		return
	}
	defer cursor.Close(context.TODO())

	var doctors []models.User
	if err = cursor.All(context.TODO(), &doctors); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode doctors"})
		return
	}

	list := make([]gin.H, 0, len(doctors))
	for _, doc := range doctors {
		list = append(list, gin.H{
			"fullName":       doc.FullName,
			"email":          doc.Email,
			"specialization": doc.Specialization,
			"phone":          doc.Phone,
		})
	}

	c.JSON(http.StatusOK, list)
}
