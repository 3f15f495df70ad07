package handler

import (
	"net/http"
	"strings"

	"github.com/focusup/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const sessionUserIDKey = "user_id"

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register 注册新用户并直接建立会话
func (a *API) Register(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "Please provide username and password") {
		return
	}

	username := strings.TrimSpace(payload.Username)
	if username == "" || strings.TrimSpace(payload.Password) == "" {
		respondError(c, http.StatusBadRequest, "Please provide username and password")
		return
	}

	var existing db.User
	if err := a.db.Where("username = ?", username).First(&existing).Error; err == nil {
		respondError(c, http.StatusBadRequest, "Username already taken")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Server error creating user")
		return
	}

	user := db.User{Username: username, Password: string(hashed)}
	if err := a.db.Create(&user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Server error creating user")
		return
	}

	if err := establishSession(c, user); err != nil {
		respondError(c, http.StatusInternalServerError, "Session save failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

// Login 校验凭据并建立会话，用户名与密码错误不做区分
func (a *API) Login(c *gin.Context) {
	var payload credentialsPayload
	if !bindJSON(c, &payload, "Please provide username and password") {
		return
	}

	var user db.User
	if err := a.db.Where("username = ?", strings.TrimSpace(payload.Username)).First(&user).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := establishSession(c, user); err != nil {
		respondError(c, http.StatusInternalServerError, "Session save failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// Logout 清空会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "Session save failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me 返回当前登录用户信息
func (a *API) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	var user db.User
	if err := a.db.First(&user, userID).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Not authorized")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// AuthRequired 是一个简单的认证中间件，未登录请求一律返回 401 JSON
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUserID(c); !ok {
			respondError(c, http.StatusUnauthorized, "Not authorized")
			c.Abort()
			return
		}
		c.Next()
	}
}

func establishSession(c *gin.Context, user db.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	return session.Save()
}

func currentUserID(c *gin.Context) (uint, bool) {
	session := sessions.Default(c)
	raw := session.Get(sessionUserIDKey)
	if raw == nil {
		return 0, false
	}
	id, ok := raw.(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
