package handlers

import (
	"errors"
	"net/http"
	"strings"

	"device_control/internal/service"

	"github.com/gin-gonic/gin"
)

const tokenCookie = "token"

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Admin Login</title></head>
<body>
  <form method="post" action="/login">
    <label>Username: <input name="username"></label><br>
    <label>Password: <input name="password" type="password"></label><br>
    <input type="submit" value="Log in">
  </form>
</body>
</html>`

const adminPage = `<!DOCTYPE html>
<html>
<head><title>Device Panel</title></head>
<body>
  <h1>Welcome, admin!</h1>
  <p>DeviceID: %DEVICEID%</p>
</body>
</html>`

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// @Summary      Admin login
// @Description  Issues a session cookie and redirects to / on success; the
// @Description  login page is re-rendered on bad credentials.
// @Tags         auth
// @Accept       json
// @Success      302
// @Router       /login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
		return
	}

	_, token, err := h.services.Sessions.Login(req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) && h.log != nil {
			h.log.Errorw("login_failed", "username", req.Username, "err", err)
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
		return
	}

	c.SetCookie(tokenCookie, token, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

// root serves the admin page for a valid session and the login page for
// everyone else. No partial states.
func (h *Handler) root(c *gin.Context) {
	deviceID := h.services.Sessions.DeviceID()
	token, _ := c.Cookie(tokenCookie)

	if h.services.Sessions.Check(deviceID, token) {
		page := strings.ReplaceAll(adminPage, "%DEVICEID%", deviceID)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}

// @Summary      Issue an API bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/token [post]
func (h *Handler) issueToken(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.services.Authorization.GenerateToken(req.Username, req.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("token_issue_failed", "username", req.Username, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
