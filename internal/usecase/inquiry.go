package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/CTNinc/keinomori-summerlp2025/internal/domain"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/email"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/metrics"
	"github.com/CTNinc/keinomori-summerlp2025/pkg/validation"

	"github.com/rs/zerolog"
)

// InquiryMailConfig holds the fixed parts of both inquiry mails
type InquiryMailConfig struct {
	SiteName       string
	CompanyAddress string
	CompanyTel     string

	From    email.Address
	StaffTo []email.Address
	StaffCc []email.Address

	// Upper bound for each individual send
	SendTimeout time.Duration
	// Location used for the submission timestamp
	Location *time.Location
}

type inquiryUsecase struct {
	sender    email.Sender
	validator *validation.Validator
	cfg       InquiryMailConfig
	log       zerolog.Logger
	now       func() time.Time
}

// Option customizes the inquiry usecase
type Option func(*inquiryUsecase)

// WithClock overrides the submission clock
func WithClock(now func() time.Time) Option {
	return func(uc *inquiryUsecase) { uc.now = now }
}

// NewInquiryUsecase creates a new inquiry usecase
func NewInquiryUsecase(sender email.Sender, v *validation.Validator, cfg InquiryMailConfig, log zerolog.Logger, opts ...Option) domain.InquiryUsecase {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}

	uc := &inquiryUsecase{
		sender:    sender,
		validator: v,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *inquiryUsecase) Rules() []validation.Rule {
	return uc.validator.Rules()
}

// Submit sanitizes and validates the request, then sends the staff
// notification followed by the visitor acknowledgement. Sends are sequential
// and are not cancelled when the caller goes away.
func (uc *inquiryUsecase) Submit(ctx context.Context, req *domain.InquiryRequest) error {
	clean := req.Sanitized()

	if errs := uc.validator.Server(&clean); len(errs) > 0 {
		uc.log.Info().
			Strs("fields", fieldNames(errs)).
			Msg("inquiry rejected by validation")
		return &domain.ValidationError{Fields: errs}
	}

	data := uc.mailData(&clean)

	staff, err := uc.staffMessage(data)
	if err == nil {
		err = uc.send(ctx, metrics.MailStaffNotification, staff)
	}
	if err != nil {
		uc.log.Error().
			Err(err).
			Strs("recipients", staff.Recipients()).
			Str("subject", staff.Subject).
			Msg("staff notification failed")
		return fmt.Errorf("%w: %w", domain.ErrStaffNotification, err)
	}
	uc.log.Info().
		Strs("recipients", staff.Recipients()).
		Str("subject", staff.Subject).
		Msg("staff notification sent")

	ack, err := uc.acknowledgementMessage(data)
	if err == nil {
		err = uc.send(ctx, metrics.MailAcknowledgement, ack)
	}
	if err != nil {
		uc.log.Error().
			Err(err).
			Str("recipient", clean.Email).
			Str("subject", ack.Subject).
			Msg("acknowledgement failed")
		return nil
	}
	uc.log.Info().
		Str("recipient", clean.Email).
		Str("subject", ack.Subject).
		Msg("acknowledgement sent")

	return nil
}

func (uc *inquiryUsecase) send(ctx context.Context, kind string, msg email.Message) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.cfg.SendTimeout)
	defer cancel()

	start := time.Now()
	err := uc.sender.Send(ctx, msg)
	metrics.RecordMailDispatch(kind, err, time.Since(start))
	return err
}

func (uc *inquiryUsecase) mailData(req *domain.InquiryRequest) email.InquiryMailData {
	return email.InquiryMailData{
		SiteName:       uc.cfg.SiteName,
		CompanyAddress: uc.cfg.CompanyAddress,
		CompanyTel:     uc.cfg.CompanyTel,
		CarType:        req.CarType,
		Name:           req.Name,
		NameKana:       req.NameKana,
		Email:          req.Email,
		Phone:          req.Phone,
		VisitDate:      req.VisitDate,
		VisitTime:      req.VisitTime,
		Store:          req.Store,
		Message:        req.Message,
		PrivacyAgreed:  req.PrivacyAgree,
		SubmittedAt:    uc.now().In(uc.cfg.Location),
	}
}

func (uc *inquiryUsecase) staffMessage(data email.InquiryMailData) (email.Message, error) {
	msg := email.Message{
		From:    uc.cfg.From,
		To:      uc.cfg.StaffTo,
		Cc:      uc.cfg.StaffCc,
		ReplyTo: data.Email,
		Subject: email.StaffNotificationSubject(data.SiteName, data.CarType),
	}
	_, body, err := email.RenderStaffNotification(data)
	msg.Body = body
	return msg, err
}

func (uc *inquiryUsecase) acknowledgementMessage(data email.InquiryMailData) (email.Message, error) {
	msg := email.Message{
		From:    uc.cfg.From,
		To:      []email.Address{{Email: data.Email}},
		Subject: email.AcknowledgementSubject(data.SiteName, data.CarType),
	}
	_, body, err := email.RenderAcknowledgement(data)
	msg.Body = body
	return msg, err
}

func fieldNames(errs validation.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
