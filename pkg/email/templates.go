package email

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// TimestampLayout is used for the submission time in the staff notification
const TimestampLayout = "2006-01-02 15:04:05"

// InquiryMailData holds the data for both inquiry mails
type InquiryMailData struct {
	SiteName       string
	CompanyAddress string
	CompanyTel     string

	CarType   string
	Name      string
	NameKana  string
	Email     string
	Phone     string
	VisitDate string
	VisitTime string
	Store     string
	Message   string

	PrivacyAgreed bool
	SubmittedAt   time.Time
}

const staffNotificationTemplate = `以下の内容でお問い合わせがありました。

【お客様情報】
お名前: {{.Name}}
フリガナ: {{.NameKana}}
電話番号: {{.Phone}}
メールアドレス: {{.Email}}
車種: {{.CarType}}
来店希望店舗: {{.Store}}
来店希望日: {{.VisitDate}}
来店希望時間: {{.VisitTime}}
お問い合わせ内容: {{.Message}}
プライバシーポリシー同意: {{if .PrivacyAgreed}}同意{{else}}未同意{{end}}

送信日時: {{timestamp .SubmittedAt}}
`

const acknowledgementTemplate = `{{.Name}} 様

この度は{{.SiteName}}にお問い合わせいただき、ありがとうございます。

以下の内容でお問い合わせを受け付けました。
担当者より順次ご連絡いたしますので、しばらくお待ちください。

【お問い合わせ内容】
車種: {{.CarType}}
来店希望日時: {{.VisitDate}} {{.VisitTime}}
来店希望店舗: {{.Store}}
お問い合わせ内容: {{.Message}}

【{{.SiteName}}】
{{.CompanyAddress}}
TEL: {{.CompanyTel}}

※このメールは自動送信されています。
※返信はできませんので、ご了承ください。
`

var (
	funcs = template.FuncMap{
		"timestamp": func(t time.Time) string { return t.Format(TimestampLayout) },
	}
	staffTmpl = template.Must(template.New("staff_notification").Funcs(funcs).Parse(staffNotificationTemplate))
	ackTmpl   = template.Must(template.New("acknowledgement").Funcs(funcs).Parse(acknowledgementTemplate))
)

func StaffNotificationSubject(siteName, carType string) string {
	return fmt.Sprintf("%s お問い合わせフォーム - %s", siteName, carType)
}

func AcknowledgementSubject(siteName, carType string) string {
	return fmt.Sprintf("【%s】お問い合わせありがとうございます - %s", siteName, carType)
}

// RenderStaffNotification returns the subject and body of the mail sent to staff
func RenderStaffNotification(data InquiryMailData) (string, string, error) {
	body, err := render(staffTmpl, data)
	if err != nil {
		return "", "", err
	}
	return StaffNotificationSubject(data.SiteName, data.CarType), body, nil
}

// RenderAcknowledgement returns the subject and body of the auto-reply sent to the visitor
func RenderAcknowledgement(data InquiryMailData) (string, string, error) {
	body, err := render(ackTmpl, data)
	if err != nil {
		return "", "", err
	}
	return AcknowledgementSubject(data.SiteName, data.CarType), body, nil
}

func render(tmpl *template.Template, data InquiryMailData) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return body.String(), nil
}
