package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/models"
	"github.com/shahbazzubair/hair-follicle-detection-system/internal/utils"
)

type SignupPatientRequest struct {
	FullName string `json:"fullName" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignupPatient registers a patient account. Patients are Active immediately.
func (h *Handler) SignupPatient(c *gin.Context) {
	var req SignupPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.IsPasswordSecure(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password does not meet the security checklist"})
		return
	}

	users := h.DB.Collection("users")
	if err := users.FindOne(context.TODO(), bson.M{"email": req.Email}).Err(); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       primitive.NewObjectID(),
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashedPassword,
		Role:     models.RolePatient,
		Status:   models.StatusActive,
	}
	if _, err := users.InsertOne(context.TODO(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Patient registered successfully"})
}

// SignupDoctor registers a doctor from a multipart form carrying the degree
// image. The account stays Pending until an admin verifies it.
func (h *Handler) SignupDoctor(c *gin.Context) {
	fullName := c.PostForm("fullName")
	email := c.PostForm("email")
	phone := c.PostForm("phone")
	password := c.PostForm("password")
	specialization := c.PostForm("specialization")

	if fullName == "" || email == "" || phone == "" || password == "" || specialization == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required"})
		return
	}
	if !utils.IsPasswordSecure(password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password does not meet the security checklist"})
		return
	}

	degree, err := c.FormFile("degree")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Degree image is required"})
		return
	}

	users := h.DB.Collection("users")
	if err := users.FindOne(context.TODO(), bson.M{"email": email}).Err(); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	degreePath, err := h.saveUpload(c, degree, "degrees")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	doctor := models.User{
		ID:             primitive.NewObjectID(),
		FullName:       fullName,
		Email:          email,
		Phone:          phone,
		Password:       hashedPassword,
		Role:           models.RoleDoctor,
		Status:         models.StatusPending,
		Specialization: specialization,
		DegreePath:     degreePath,
	}
	if _, err := users.InsertOne(context.TODO(), doctor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "message": "Doctor registered. Awaiting Admin approval."})
}

// Login checks credentials and returns role, display name and a session
// token. The backend is the source of truth for the role; the request never
// carries one.
func (h *Handler) Login(c *gin.Context) {
	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User
	users := h.DB.Collection("users")
	err := users.FindOne(context.TODO(), bson.M{"email": loginReq.Email}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Unverified doctors authenticate but may not enter.
	if user.Role == models.RoleDoctor && user.Status == models.StatusPending {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account pending admin verification."})
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Role, user.FullName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"role":     user.Role,
		"fullName": user.FullName,
		"token":    token,
	})
}

const neutralResetMessage = "If that email is registered, a reset link has been sent."

// ForgotPassword answers with the same neutral body whether or not the email
// exists, so the endpoint cannot be used to enumerate accounts.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}

	var user models.User
	users := h.DB.Collection("users")
	if err := users.FindOne(context.TODO(), bson.M{"email": req.Email}).Decode(&user); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": neutralResetMessage})
		return
	}

	token, jti, err := utils.GenerateResetToken(user.Email)
	if err != nil {
		log.Printf("ForgotPassword: could not issue reset token: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": neutralResetMessage})
		return
	}

	// Only the latest token stays valid, and only for one use.
	_, err = users.UpdateOne(context.TODO(),
		bson.M{"_id": user.ID},
		bson.M{"$set": bson.M{"resetTokenId": jti}},
	)
	if err != nil {
		log.Printf("ForgotPassword: could not store reset token id: %v", err)
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": neutralResetMessage})
		return
	}

	link := h.Cfg.ResetURLBase + "/" + token
	go func(to, name, link string) {
		if err := h.Mailer.SendPasswordReset(to, name, link); err != nil {
			log.Printf("ForgotPassword: failed to send reset email to %s: %v", to, err)
		}
	}(user.Email, user.FullName, link)

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": neutralResetMessage})
}

// ResetPassword consumes a reset token and installs the new password. The
// token is valid for exactly one successful update.
func (h *Handler) ResetPassword(c *gin.Context) {
	tokenStr := c.Param("token")

	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}
	if !utils.IsPasswordSecure(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password does not meet the security checklist"})
		return
	}

	email, jti, err := utils.ValidateResetToken(tokenStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The reset link is invalid or has expired."})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	// Matching on the stored jti makes replay and superseded tokens fail.
	users := h.DB.Collection("users")
	result, err := users.UpdateOne(context.TODO(),
		bson.M{"email": email, "resetTokenId": jti},
		bson.M{
			"$set":   bson.M{"password": hashedPassword},
			"$unset": bson.M{"resetTokenId": ""},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The reset link is invalid or has expired."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Password updated successfully"})
}
