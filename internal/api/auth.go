package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/auth"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
)

func (s *Server) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, clierr.Newf(clierr.InvalidInput, "invalid input: %v", err))
		return
	}
	id, err := s.deps.Auth.Register(c.Request.Context(), req.Email, req.Password, req.Confirm)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, id)
}

func (s *Server) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, clierr.Newf(clierr.InvalidInput, "invalid input: %v", err))
		return
	}
	email := auth.NormalizeEmail(req.Email)
	u, err := s.deps.Auth.Verify(c.Request.Context(), email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := s.deps.Auth.Issue(u)
	if err != nil {
		fail(c, err)
		return
	}
	s.deps.Log.Record(activity.ActionLogin, "", email+" (api)")
	ok(c, http.StatusOK, id)
}

func (s *Server) me(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"user_id": c.GetString(ctxUserID), "email": c.GetString(ctxEmail)})
}
