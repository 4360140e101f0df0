package inquiryclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/pkg/inquiryclient"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jst = time.FixedZone("JST", 9*60*60)

type fakeServer struct {
	*httptest.Server
	tokenCalls  atomic.Int32
	submitCalls atomic.Int32
	lastForm    atomic.Value
}

func newFakeServer(t *testing.T, submit gin.HandlerFunc) *fakeServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &fakeServer{}
	r := gin.New()
	r.GET("/v1/inquiry/token", func(c *gin.Context) {
		n := s.tokenCalls.Add(1)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OK", "data": gin.H{"token": "tok-" + strconv.Itoa(int(n))}})
	})
	r.GET("/v1/inquiry/rules", func(c *gin.Context) {
		rules := []validation.Rule{
			{Field: validation.FieldName, Check: validation.CheckRequired, Message: "名前は必須です", Scope: validation.ScopeBoth},
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OK", "data": rules})
	})
	r.POST("/v1/inquiry", func(c *gin.Context) {
		s.submitCalls.Add(1)
		_ = c.Request.ParseForm()
		s.lastForm.Store(c.Request.PostForm)
		submit(c)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) posted() url.Values {
	v, _ := s.lastForm.Load().(url.Values)
	return v
}

func newClient(s *fakeServer) *inquiryclient.Client {
	return inquiryclient.New(s.URL,
		inquiryclient.WithLocation(jst),
		inquiryclient.WithClock(func() time.Time { return time.Date(2026, 10, 14, 12, 0, 0, 0, jst) }),
	)
}

func validForm() inquiryclient.Form {
	return inquiryclient.Form{
		CarType:      "N-BOX",
		Name:         "山田太郎",
		NameKana:     "やまだたろう",
		Email:        "taro@example.com",
		Phone:        "09012345678",
		VisitDate:    "2026-10-20",
		VisitTime:    "10:00〜12:00",
		Store:        "堺本店",
		PrivacyAgree: true,
	}
}

func TestSubmitAbortsOnLocalValidation(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {})
	client := newClient(s)

	form := validForm()
	form.Email = "taro@example"
	form.VisitDate = "2026-10-13"
	form.PrivacyAgree = false

	_, err := client.Submit(context.Background(), form)

	require.Error(t, err)
	assert.True(t, inquiryclient.IsValidation(err))
	var vErr *inquiryclient.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{
		"プライバシーポリシーに同意してください。",
		"来店希望日は今日以降の日付を選択してください。",
		"正しいメールアドレスを入力してください。",
	}, vErr.Messages)
	assert.Contains(t, err.Error(), "以下のエラーがあります：")
	assert.Zero(t, s.submitCalls.Load())
	assert.Zero(t, s.tokenCalls.Load())
}

func TestSubmitAcceptedRefreshesToken(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "受け付けました"})
	})
	client := newClient(s)

	res, err := client.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, inquiryclient.KindAccepted, res.Kind)
	assert.Equal(t, "受け付けました", res.Message)
	assert.Equal(t, int32(2), s.tokenCalls.Load(), "fetched before posting and again after success")

	posted := s.posted()
	assert.Equal(t, []string{"tok-1"}, posted["csrf_token"])
	assert.Equal(t, []string{"1"}, posted["privacy_agree"])
	assert.Equal(t, []string{"N-BOX"}, posted["car_type"])

	_, err = client.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, s.posted()["csrf_token"])
}

func TestSubmitRejectedCarriesFieldErrors(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": "入力内容にエラーがあります。",
			"errors":  gin.H{"email": "正しいメールアドレスを入力してください。"},
		})
	})
	client := newClient(s)

	res, err := client.Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, inquiryclient.KindRejected, res.Kind)
	assert.Equal(t, "入力内容にエラーがあります。", res.Message)
	assert.Equal(t, map[string]string{"email": "正しいメールアドレスを入力してください。"}, res.Errors)
	assert.Equal(t, int32(1), s.tokenCalls.Load(), "token kept after a field rejection")

	_, err = client.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, s.posted()["csrf_token"])
}

func TestSubmitTokenRejectionFetchesFreshToken(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		if c.PostForm("csrf_token") == "tok-1" {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "セッションの有効期限が切れました。ページを再読み込みしてください。"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "受け付けました"})
	})
	client := newClient(s)

	res, err := client.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, inquiryclient.KindRejected, res.Kind)
	assert.Empty(t, res.Errors)

	res, err = client.Submit(context.Background(), validForm())
	require.NoError(t, err)
	assert.Equal(t, inquiryclient.KindAccepted, res.Kind)
	assert.Equal(t, []string{"tok-2"}, s.posted()["csrf_token"])
}

func TestSubmitRejectedWithoutMessage(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": false})
	})

	res, err := newClient(s).Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, inquiryclient.FallbackMessage, res.Message)
}

func TestSubmitRedirected(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/thanks")
	})

	res, err := newClient(s).Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, inquiryclient.KindRedirected, res.Kind)
	assert.Equal(t, "/thanks", res.Location)
}

func TestSubmitNonJSONIsConfirmation(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte("<p>thanks</p>"))
	})

	res, err := newClient(s).Submit(context.Background(), validForm())

	require.NoError(t, err)
	assert.Equal(t, inquiryclient.KindConfirmed, res.Kind)
}

func TestSubmitServerErrorIsFailure(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "boom"})
	})

	res, err := newClient(s).Submit(context.Background(), validForm())

	require.Error(t, err)
	assert.Equal(t, inquiryclient.KindFailed, res.Kind)
	assert.Equal(t, inquiryclient.RetryMessage, res.Message)
}

func TestSubmitUnreachableIsFailure(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {})
	addr := s.URL
	s.Close()

	res, err := inquiryclient.New(addr, inquiryclient.WithTimeout(time.Second)).Submit(context.Background(), validForm())

	require.Error(t, err)
	assert.Equal(t, inquiryclient.KindFailed, res.Kind)
	assert.Equal(t, inquiryclient.RetryMessage, res.Message)
}

func TestLoadRulesReplacesRuleSet(t *testing.T) {
	s := newFakeServer(t, func(c *gin.Context) {})
	client := newClient(s)

	require.NoError(t, client.LoadRules(context.Background()))

	assert.Equal(t, []string{"名前は必須です"}, client.Validate(inquiryclient.Form{}))
	assert.Empty(t, client.Validate(inquiryclient.Form{Name: "山田"}))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "accepted", inquiryclient.KindAccepted.String())
	assert.Equal(t, "failed", inquiryclient.KindFailed.String())
}
