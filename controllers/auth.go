package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/models"
	"github.com/docwell/docwell-backend/utils"
)

type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a patient or doctor account. Admin accounts are
// provisioned out of band.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON", "BAD_REQUEST", err.Error())
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Missing required fields", "BAD_REQUEST",
			"name, email and password are required")
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RolePatient
	}
	if role != models.RolePatient && role != models.RoleDoctor {
		return utils.Fail(c, fiber.StatusBadRequest, "Invalid role", "BAD_REQUEST",
			"role must be patient or doctor")
	}

	var existing models.User
	if ac.DB.Where("email = ?", req.Email).First(&existing).RowsAffected > 0 {
		return utils.Fail(c, fiber.StatusConflict, "User with this email already exists", "EMAIL_TAKEN", req.Email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create user", "INTERNAL", "unexpected error")
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     role,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create user", "INTERNAL", "unexpected error")
	}

	// doctors start with an empty profile they fill in later
	if role == models.RoleDoctor {
		if err := ac.DB.Create(&models.DoctorProfile{UserID: user.ID, TimeZone: "UTC"}).Error; err != nil {
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create user", "INTERNAL", "unexpected error")
		}
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifies credentials and issues a short-lived access token and
// a refresh token.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "Cannot parse JSON", "BAD_REQUEST", err.Error())
	}

	var user models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", "email or password incorrect")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", "email or password incorrect")
	}

	access, err := ac.signToken(&user, 24*time.Hour)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to issue token", "INTERNAL", "unexpected error")
	}
	refresh, err := ac.signToken(&user, 7*24*time.Hour)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to issue token", "INTERNAL", "unexpected error")
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"token":         access,
		"refresh_token": refresh,
		"user":          user,
	})
}

// RefreshToken exchanges a valid refresh token for a fresh access
// token.
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return utils.Fail(c, fiber.StatusBadRequest, "Missing refresh token", "BAD_REQUEST", "refresh_token is required")
	}

	token, err := jwt.Parse(req.RefreshToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(ac.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid refresh token", "INVALID_TOKEN", "token invalid or expired")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid refresh token", "INVALID_TOKEN", "token claims unreadable")
	}

	var user models.User
	if err := ac.DB.First(&user, uint(claims["id"].(float64))).Error; err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid refresh token", "INVALID_TOKEN", "user no longer exists")
	}

	access, err := ac.signToken(&user, 24*time.Hour)
	if err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to issue token", "INTERNAL", "unexpected error")
	}
	return c.JSON(fiber.Map{"token": access})
}

// Me returns the authenticated user's record.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	var user models.User
	if err := ac.DB.Preload("DoctorProfile").First(&user, userID).Error; err != nil {
		return utils.Fail(c, fiber.StatusNotFound, "User not found", "USER_NOT_FOUND", "account no longer exists")
	}
	user.Password = ""
	return c.JSON(user)
}

func (ac *AuthController) signToken(user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":   user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.JWTSecret))
}
