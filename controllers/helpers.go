package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/services"
	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

func postIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("post_id"), 10, 64)
	if err != nil || id == 0 {
		utils.NotFound(ctx, 40420, "post not found")
		return 0, false
	}
	return uint(id), true
}

// failLookup answers a failed lookup: missing records become 404 and everything
// else is handled by fail.
func failLookup(ctx *gin.Context, err error, notFoundCode int, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		utils.NotFound(ctx, notFoundCode, notFoundMsg)
		return
	}
	fail(ctx, err, 50000, "internal server error")
}

// fail sends anonymous actors to login and turns anything else into a logged 500
// carrying the operation's error code.
func fail(ctx *gin.Context, err error, code int, msg string) {
	if errors.Is(err, services.ErrLoginRequired) {
		middleware.RedirectToLogin(ctx)
		return
	}
	utils.Logger.Error(msg,
		zap.Error(err),
		zap.Int("code", code),
		zap.String("path", ctx.Request.URL.Path),
		zap.String("request_id", ctx.GetString(middleware.ContextRequestIDKey)),
	)
	utils.Error(ctx, http.StatusInternalServerError, code, msg)
	ctx.Abort()
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

// checkbox reads an HTML checkbox value.
func checkbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
