package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paint-queue/database"
	"github.com/yeremiapane/paint-queue/middlewares"
	"github.com/yeremiapane/paint-queue/models"
	"github.com/yeremiapane/paint-queue/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB     *gorm.DB
	Tokens *utils.TokenManager
}

func NewUserController(db *gorm.DB, tokens *utils.TokenManager) *UserController {
	return &UserController{DB: db, Tokens: tokens}
}

// Login -> JWT carrying the account's role
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := uc.Tokens.GenerateToken(user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  user.Role,
	})
}

func (uc *UserController) Logout(c *gin.Context) {
	token, claims := middlewares.GetSession(c)
	uc.Tokens.Revoke(token, claims)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (uc *UserController) GetProfile(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Profile", gin.H{
		"username": middlewares.GetUsername(c),
		"role":     middlewares.GetRole(c),
	})
}

// CreateUser -> admin adds a staff account
func (uc *UserController) CreateUser(c *gin.Context) {
	var req struct {
		Username string      `json:"username" binding:"required"`
		Password string      `json:"password" binding:"required,min=6"`
		Role     models.Role `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	user, err := database.CreateUser(uc.DB, req.Username, req.Password, req.Role)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.InfoLogger.Printf("New user created: %s (role=%s)", user.Username, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}
