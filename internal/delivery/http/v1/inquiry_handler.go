package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/middleware"
	"github.com/CTNinc/keinomori-summerlp2025/internal/delivery/http/response"
	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/apperror"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/metrics"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	MessageAccepted        = "お問い合わせを受け付けました。担当者より順次ご連絡いたしますので、しばらくお待ちください。"
	MessageInvalid         = "入力内容にエラーがあります。"
	MessageStaffMailFailed = "メール送信に失敗しました。しばらく時間をおいて再度お試しください。"
	MessageBadRequest      = "不正なリクエストです。"
)

type InquiryHandler struct {
	inquiryUC       domain.InquiryUsecase
	tokenUC         domain.TokenUsecase
	successRedirect string
}

// Guards are the per-route middlewares run ahead of the inquiry handlers
type Guards struct {
	// Submit runs before the token check of POST /inquiry
	Submit []gin.HandlerFunc
	// Token runs before GET /inquiry/token
	Token []gin.HandlerFunc
}

// NewInquiryHandler registers the inquiry routes
func NewInquiryHandler(public *gin.RouterGroup, inquiryUC domain.InquiryUsecase, tokenUC domain.TokenUsecase, successRedirect string, guards Guards) {
	handler := &InquiryHandler{
		inquiryUC:       inquiryUC,
		tokenUC:         tokenUC,
		successRedirect: successRedirect,
	}

	submit := append([]gin.HandlerFunc{}, guards.Submit...)
	submit = append(submit, middleware.InquiryToken(tokenUC), handler.Submit)
	issue := append([]gin.HandlerFunc{}, guards.Token...)
	issue = append(issue, handler.IssueToken)

	public.POST("/inquiry", submit...)
	public.GET("/inquiry/token", issue...)
	public.GET("/inquiry/rules", handler.Rules)
}

// Submit godoc
// @Summary      Submit Inquiry
// @Description  Validate a visit inquiry, notify staff and acknowledge the visitor.
// @Tags         inquiry
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        car_type       formData  string  true   "Car type"
// @Param        name           formData  string  true   "Name"
// @Param        name_kana      formData  string  true   "Name (kana)"
// @Param        email          formData  string  true   "Email"
// @Param        phone          formData  string  true   "Phone (digits only)"
// @Param        visit_date     formData  string  true   "Visit date (YYYY-MM-DD)"
// @Param        visit_time     formData  string  true   "Visit time slot"
// @Param        store          formData  string  true   "Store"
// @Param        message        formData  string  false  "Message"
// @Param        privacy_agree  formData  string  true   "Present when the privacy policy is accepted"
// @Param        csrf_token     formData  string  true   "Anti-forgery token"
// @Success      200  {object}  response.Response
// @Success      303  "Redirect to the thanks page for plain form posts"
// @Failure      405  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /inquiry [post]
func (h *InquiryHandler) Submit(c *gin.Context) {
	log := middleware.Logger(c)

	var req domain.InquiryRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		_ = c.Error(apperror.BadRequest(MessageBadRequest))
		return
	}
	_, req.PrivacyAgree = c.GetPostForm(validation.FieldPrivacyAgree)

	err := h.inquiryUC.Submit(c.Request.Context(), &req)

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		metrics.RecordSubmission(metrics.OutcomeInvalid)
		response.Error(c, http.StatusOK, MessageInvalid, vErr.Fields)
		return
	case errors.Is(err, domain.ErrStaffNotification):
		metrics.RecordSubmission(metrics.OutcomeStaffMailFailed)
		response.Error(c, http.StatusOK, MessageStaffMailFailed, nil)
		return
	case err != nil:
		_ = c.Error(apperror.Internal(err))
		return
	}

	metrics.RecordSubmission(metrics.OutcomeAccepted)
	log.Info().Str("car_type", req.CarType).Str("store", req.Store).Msg("inquiry accepted")

	if h.successRedirect != "" && isPlainFormPost(c) {
		c.Redirect(http.StatusSeeOther, h.successRedirect)
		return
	}
	response.Success(c, http.StatusOK, MessageAccepted, nil)
}

// IssueToken godoc
// @Summary      Issue Anti-Forgery Token
// @Description  Issue a token to post back in the csrf_token field.
// @Tags         inquiry
// @Produce      json
// @Success      200  {object}  response.Response{data=TokenData}
// @Failure      429  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /inquiry/token [get]
func (h *InquiryHandler) IssueToken(c *gin.Context) {
	token, err := h.tokenUC.Issue(c.Request.Context())
	if err != nil {
		_ = c.Error(apperror.Unavailable("現在お問い合わせを受け付けできません。しばらく時間をおいて再度お試しください。", err))
		return
	}
	c.Header("Cache-Control", "no-store")
	response.Success(c, http.StatusOK, "OK", TokenData{Token: token})
}

// Rules godoc
// @Summary      Inquiry Validation Rules
// @Description  The ordered rule set the form controller enforces before submitting.
// @Tags         inquiry
// @Produce      json
// @Success      200  {object}  response.Response{data=[]validation.Rule}
// @Router       /inquiry/rules [get]
func (h *InquiryHandler) Rules(c *gin.Context) {
	response.Success(c, http.StatusOK, "OK", h.inquiryUC.Rules())
}

type TokenData struct {
	Token string `json:"token"`
}

// isPlainFormPost reports whether the request came from a browser form
// submission rather than a script expecting JSON.
func isPlainFormPost(c *gin.Context) bool {
	if c.GetHeader("X-Requested-With") != "" {
		return false
	}
	return !strings.Contains(c.GetHeader("Accept"), "application/json")
}
