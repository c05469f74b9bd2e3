package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// letters, digits and @/./+/-/_ only
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

const maxUsernameLength = 150

// AuthController issues identity tokens. It is not a login screen.
type AuthController struct {
	store *store.Store
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(s *store.Store) *AuthController {
	return &AuthController{store: s}
}

type credentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

// LoginPage describes the login entry point, echoing where the client should return.
func (a *AuthController) LoginPage(ctx *gin.Context) {
	utils.Success(ctx, gin.H{
		"next":   ctx.Query("next"),
		"fields": []string{"username", "password"},
	})
}

// Login checks credentials, issues a JWT and stores it in the token cookie.
// A safe next target turns the response into a redirect.
func (a *AuthController) Login(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	user, err := a.store.UserByUsername(strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, ok := a.issueToken(ctx, user)
	if !ok {
		return
	}

	next := req.Next
	if next == "" {
		next = ctx.Query("next")
	}
	if safeNext(next) {
		ctx.Redirect(http.StatusFound, next)
		return
	}
	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Signup creates a local identity and logs it in.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req credentials
	if err := ctx.ShouldBind(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if utf8.RuneCountInString(username) > maxUsernameLength || !usernamePattern.MatchString(username) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username may contain only letters, digits and @/./+/-/_ characters")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrWeakPassword) {
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
		return
	}
	if err != nil {
		fail(ctx, err, 50002, "failed to hash password")
		return
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := a.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Error(ctx, http.StatusConflict, 40901, "username already exists")
			return
		}
		fail(ctx, err, 50003, "failed to create user")
		return
	}
	utils.Sugar.Infof("user signed up username=%s id=%d", user.Username, user.ID)

	token, ok := a.issueToken(ctx, user)
	if !ok {
		return
	}
	ctx.JSON(http.StatusCreated, utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"token": token, "user": user}})
}

func (a *AuthController) issueToken(ctx *gin.Context, user *models.User) (string, bool) {
	ttl := time.Duration(config.Get().TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	token, err := utils.GenerateToken(user.ID, user.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return "", false
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.TokenCookie, token, int(ttl.Seconds()), "/", "", false, true)
	return token, true
}

// safeNext accepts only local absolute paths.
func safeNext(next string) bool {
	return strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.Contains(next, "\\")
}
