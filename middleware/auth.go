package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

const (
	// ContextUserKey holds the authenticated *models.User inside the Gin context.
	ContextUserKey = "user"
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"

	// TokenCookie carries the JWT for browser clients.
	TokenCookie = "token"
	// LoginURL is where anonymous requests to protected routes are sent.
	LoginURL = "/auth/login/"
)

// Authenticate resolves the identity behind a bearer token or token cookie.
// Requests without a valid token continue anonymously.
func Authenticate(s *store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			ctx.Next()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if errors.Is(err, utils.ErrExpiredToken) {
			// stale browser session
			if _, cerr := ctx.Cookie(TokenCookie); cerr == nil {
				ctx.SetCookie(TokenCookie, "", -1, "/", "", false, true)
			}
			ctx.Next()
			return
		}
		if err != nil {
			utils.Sugar.Debugf("ignoring invalid token: %v", err)
			ctx.Next()
			return
		}
		userID, _ := claims.UserID()

		user, err := s.UserByID(userID)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				utils.Sugar.Warnf("identity lookup failed user_id=%d err=%v", userID, err)
			}
			ctx.Next()
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextUserIDKey, user.ID)
		ctx.Set(ContextUsernameKey, user.Username)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := ctx.Cookie(TokenCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(ctx *gin.Context) *models.User {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// LoginRequired sends anonymous requests to the login entry point.
func LoginRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if CurrentUser(ctx) == nil {
			RedirectToLogin(ctx)
			return
		}
		ctx.Next()
	}
}

// RedirectToLogin answers with a redirect to the login entry point carrying the
// current request URI as next. Slashes in next are left unescaped.
func RedirectToLogin(ctx *gin.Context) {
	next := strings.ReplaceAll(url.QueryEscape(ctx.Request.URL.RequestURI()), "%2F", "/")
	ctx.Redirect(http.StatusFound, LoginURL+"?next="+next)
	ctx.Abort()
}
