package handlers

import (
	"github.com/gin-gonic/gin"

	"meditrack-system/internal/services/users"
)

type UserHTTPHandler struct {
	users *users.Service
}

func NewUserHTTPHandler(usersSvc *users.Service) *UserHTTPHandler {
	return &UserHTTPHandler{users: usersSvc}
}

func (h *UserHTTPHandler) Register(c *gin.Context) {
	var in users.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *UserHTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	success(c, result)
}
