package handler

import (
	"net/http"

	"leadportal_backend/internal/leads/domain"
	"leadportal_backend/internal/leads/intake"
	"leadportal_backend/internal/leads/transport"
	"leadportal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated website form endpoint.
type PublicHandler struct {
	svc *intake.Service
}

const publicMsgInvalidBody = "Invalid request body"

// NewPublicHandler creates a new public handler for lead intake.
func NewPublicHandler(svc *intake.Service) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// RegisterRoutes registers the intake route on rg.
func (h *PublicHandler) RegisterRoutes(rg gin.IRoutes, middleware ...gin.HandlerFunc) {
	rg.POST("/lead-intake", append(middleware, h.Submit)...)
}

// Submit handles POST /lead-intake.
func (h *PublicHandler) Submit(c *gin.Context) {
	var req transport.LeadIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, publicMsgInvalidBody, nil)
		return
	}

	lead, err := h.svc.Submit(c.Request.Context(), req, requestMeta(c))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.LeadIntakeResponse{OK: true, ID: lead.ID})
}

func requestMeta(c *gin.Context) domain.RequestMeta {
	return domain.RequestMeta{
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		RealIP:       c.GetHeader("X-Real-IP"),
		UserAgent:    c.Request.UserAgent(),
		Referer:      c.Request.Referer(),
		Origin:       requestOrigin(c.Request),
	}
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	} else if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" || proto == "http" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
