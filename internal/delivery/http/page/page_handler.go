package page

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/middleware"
	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Options holds what the form page shows besides the token
type Options struct {
	SiteName   string
	CarTypes   []string
	Stores     []string
	VisitTimes []string
	// Location decides which day is "today" for the date picker
	Location *time.Location
}

type PageHandler struct {
	tokenUC   domain.TokenUsecase
	inquiryUC domain.InquiryUsecase
	opts      Options
	now       func() time.Time
}

// NewPageHandler registers the server-rendered form and thanks page
func NewPageHandler(r gin.IRoutes, tokenUC domain.TokenUsecase, inquiryUC domain.InquiryUsecase, opts Options) *PageHandler {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	handler := &PageHandler{
		tokenUC:   tokenUC,
		inquiryUC: inquiryUC,
		opts:      opts,
		now:       time.Now,
	}

	r.GET("/", handler.Form)
	r.GET("/thanks", handler.Thanks)
	return handler
}

// SetClock overrides the clock used for the date picker minimum
func (h *PageHandler) SetClock(now func() time.Time) {
	h.now = now
}

func (h *PageHandler) Form(c *gin.Context) {
	log := middleware.Logger(c)

	// An empty token makes the browser fetch one from the token endpoint
	token, err := h.tokenUC.Issue(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token for form page")
	}

	rules, err := json.Marshal(h.inquiryUC.Rules())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "index.html", gin.H{
		"SiteName":   h.opts.SiteName,
		"Token":      token,
		"RulesJSON":  string(rules),
		"Today":      h.now().In(h.opts.Location).Format(validation.DateLayout),
		"CarTypes":   h.opts.CarTypes,
		"Stores":     h.opts.Stores,
		"VisitTimes": h.opts.VisitTimes,
	})
}

func (h *PageHandler) Thanks(c *gin.Context) {
	c.HTML(http.StatusOK, "thanks.html", gin.H{
		"SiteName": h.opts.SiteName,
	})
}
