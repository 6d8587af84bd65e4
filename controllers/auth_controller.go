package controllers

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zone-app/api-go/apperrors"
	"github.com/zone-app/api-go/config"
	"github.com/zone-app/api-go/models"
	"github.com/zone-app/api-go/repositories"
	"github.com/zone-app/api-go/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	Users        *repositories.UserRepository
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(users *repositories.UserRepository, googleConfig *config.GoogleConfig) *AuthController {
	return &AuthController{
		Users:        users,
		GoogleConfig: googleConfig,
	}
}

// validateUsernamePattern validates username format and constraints.
func validateUsernamePattern(username string) error {
	trimmedUsername := strings.TrimSpace(username)

	if len(trimmedUsername) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(trimmedUsername) > 20 {
		return fmt.Errorf("username must be no more than 20 characters long")
	}

	startsWithLetter, _ := regexp.MatchString(`^[a-zA-Z]`, trimmedUsername)
	if !startsWithLetter {
		return fmt.Errorf("username must start with a letter")
	}

	validPattern, _ := regexp.MatchString(`^[a-zA-Z][a-zA-Z0-9_]*$`, trimmedUsername)
	if !validPattern {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}

	reserved := []string{"admin", "root", "api", "www", "mail", "test", "demo", "user", "guest", "null", "undefined"}
	for _, reservedWord := range reserved {
		if strings.EqualFold(trimmedUsername, reservedWord) {
			return fmt.Errorf("this username is reserved and cannot be used")
		}
	}

	return nil
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=6"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Avatar    string `json:"avatar"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(apperrors.NewInternal("Could not hash password").WithCause(err))
		return
	}
	hashedPasswordStr := string(hashedPassword)

	user := models.User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  &hashedPasswordStr,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Avatar:    input.Avatar,
		Provider:  "email",
	}

	if err := ac.Users.Create(&user); err != nil {
		c.Error(apperrors.NewConflict("Username or email already exists").WithCause(err))
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
	})
}

func (ac *AuthController) issueTokens(c *gin.Context, user *models.User) {
	accessToken, refreshToken, err := utils.GenerateTokenPair(user.ID)
	if err != nil {
		c.Error(apperrors.NewInternal("Could not generate token").WithCause(err))
		return
	}

	if err := ac.Users.CreateRefreshToken(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(utils.RefreshTokenTTL),
	}); err != nil {
		c.Error(apperrors.NewInternal("Could not persist refresh token").WithCause(err))
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
			"avatar":   user.Avatar,
		},
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	user, err := ac.Users.FindByEmail(input.Email)
	if err != nil {
		c.Error(apperrors.NewUnauthorized("Invalid credentials"))
		return
	}

	if user.Password == nil {
		c.Error(apperrors.NewUnauthorized("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.Error(apperrors.NewUnauthorized("Invalid credentials"))
		return
	}

	ac.issueTokens(c, user)
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	refreshToken, err := ac.Users.FindRefreshToken(input.RefreshToken)
	if err != nil {
		c.Error(apperrors.NewUnauthorized("Invalid refresh token"))
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.Users.DeleteRefreshToken(refreshToken.Token)
		c.Error(apperrors.NewUnauthorized("Refresh token expired"))
		return
	}

	user, err := ac.Users.FindByID(refreshToken.UserID)
	if err != nil {
		c.Error(apperrors.NewUnauthorized("User not found"))
		return
	}

	accessToken, newRefreshToken, err := utils.GenerateTokenPair(user.ID)
	if err != nil {
		c.Error(apperrors.NewInternal("Could not generate token").WithCause(err))
		return
	}

	// Rotate the stored refresh token in place.
	refreshToken.Token = newRefreshToken
	refreshToken.ExpirationDate = time.Now().Add(utils.RefreshTokenTTL)
	if err := ac.Users.SaveRefreshToken(refreshToken); err != nil {
		c.Error(apperrors.NewInternal("Could not persist refresh token").WithCause(err))
		return
	}

	respond(c, http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
			"avatar":   user.Avatar,
		},
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	// An unknown token still logs out cleanly.
	if err := ac.Users.DeleteRefreshToken(input.RefreshToken); err != nil {
		c.Error(apperrors.NewInternal("Failed to logout").WithCause(err))
		return
	}

	respondMessage(c, "Logged out successfully")
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		c.Error(apperrors.NewInternal("Google sign-in is not configured"))
		return
	}

	var input struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		Code        string `json:"code"`
		RedirectURI string `json:"redirect_uri"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error

	switch {
	case input.Code != "" && input.RedirectURI != "":
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchangeErr != nil {
			c.Error(apperrors.NewUnauthorized("Failed to exchange code for token"))
			return
		}
		userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	case input.IDToken != "":
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	case input.AccessToken != "":
		userInfo, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	default:
		c.Error(apperrors.NewValidation("Either code with redirect_uri, id_token, or access_token is required"))
		return
	}

	if err != nil {
		c.Error(apperrors.NewUnauthorized("Invalid Google token"))
		return
	}

	user, findErr := ac.Users.FindByGoogleIDOrEmail(userInfo.ID, userInfo.Email)
	switch {
	case findErr == nil:
		if user.GoogleID == nil || *user.GoogleID == "" {
			user.GoogleID = &userInfo.ID
			user.Provider = "google"
			if user.Avatar == "" && userInfo.Picture != "" {
				user.Avatar = userInfo.Picture
			}
			ac.Users.Save(user)
		}
	case findErr == gorm.ErrRecordNotFound:
		username := uniqueUsernameFromEmail(ac.Users, userInfo.Email)
		user = &models.User{
			Username:      username,
			Email:         userInfo.Email,
			FirstName:     userInfo.GivenName,
			LastName:      userInfo.FamilyName,
			Avatar:        userInfo.Picture,
			GoogleID:      &userInfo.ID,
			Provider:      "google",
			EmailVerified: userInfo.VerifiedEmail,
		}
		if err := ac.Users.Create(user); err != nil {
			c.Error(apperrors.NewInternal("Failed to create user").WithCause(err))
			return
		}
	default:
		c.Error(apperrors.NewInternal("Failed to look up user").WithCause(findErr))
		return
	}

	ac.issueTokens(c, user)
}

func uniqueUsernameFromEmail(users *repositories.UserRepository, email string) string {
	base := strings.SplitN(email, "@", 2)[0]
	username := base
	counter := 1
	for {
		if _, err := users.FindByUsername(username); err != nil {
			return username
		}
		username = base + strconv.Itoa(counter)
		counter++
	}
}

func (ac *AuthController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	dbUser, err := ac.Users.FindByID(user.UserID)
	if err != nil {
		c.Error(apperrors.NewNotFound("User not found"))
		return
	}

	respond(c, http.StatusOK, gin.H{
		"id":        dbUser.ID,
		"username":  dbUser.Username,
		"email":     dbUser.Email,
		"firstName": dbUser.FirstName,
		"lastName":  dbUser.LastName,
		"avatar":    dbUser.Avatar,
		"createdAt": dbUser.CreatedAt,
	})
}

func (ac *AuthController) UpdateProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.Error(apperrors.NewUnauthorized("User not found in context"))
		return
	}

	var input struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Avatar    *string `json:"avatar"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.NewValidation(err.Error()))
		return
	}

	dbUser, err := ac.Users.FindByID(user.UserID)
	if err != nil {
		c.Error(apperrors.NewNotFound("User not found"))
		return
	}

	if input.FirstName != nil {
		dbUser.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		dbUser.LastName = *input.LastName
	}
	if input.Avatar != nil {
		dbUser.Avatar = *input.Avatar
	}

	if err := ac.Users.Save(dbUser); err != nil {
		c.Error(apperrors.NewInternal("Failed to update profile").WithCause(err))
		return
	}

	respond(c, http.StatusOK, gin.H{
		"id":        dbUser.ID,
		"username":  dbUser.Username,
		"email":     dbUser.Email,
		"firstName": dbUser.FirstName,
		"lastName":  dbUser.LastName,
		"avatar":    dbUser.Avatar,
	})
}
