package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
	"github.com/ericfisherdev/dongdong-admin/internal/metrics"
)

// DefaultLoginDomain is appended to login IDs that carry no "@".
const DefaultLoginDomain = "dongdong.admin"

// LoginForm is the submitted sign-in form.
type LoginForm struct {
	ID       string `validate:"required"`
	Password string `validate:"required"`
}

// PasswordForm is the submitted change-password form.
type PasswordForm struct {
	Current string `validate:"required"`
	Next    string `validate:"required,min=6"`
}

// FormError reports an invalid form submission.
type FormError struct {
	Field   string
	Message string
}

func (e *FormError) Error() string { return e.Message }

// AuthService signs administrators in and manages their password.
type AuthService struct {
	api         driven.AdminAPI
	loginDomain string
	validate    *validator.Validate
}

// NewAuthService creates an AuthService. An empty loginDomain selects
// DefaultLoginDomain.
func NewAuthService(api driven.AdminAPI, loginDomain string) *AuthService {
	loginDomain = strings.TrimPrefix(strings.TrimSpace(loginDomain), "@")
	if loginDomain == "" {
		loginDomain = DefaultLoginDomain
	}
	return &AuthService{
		api:         api,
		loginDomain: loginDomain,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// LoginEmail expands a bare login ID into the email the backend expects.
func (s *AuthService) LoginEmail(id string) string {
	id = strings.TrimSpace(id)
	if strings.Contains(id, "@") {
		return id
	}
	return id + "@" + s.loginDomain
}

// Login authenticates and, only for an ADMIN account with a non-empty
// token, stores the credential. Every failure leaves the store cleared.
func (s *AuthService) Login(ctx context.Context, creds Credentials, form LoginForm) (*model.LoginAccount, error) {
	account, err := s.login(ctx, creds, form)
	if err != nil {
		creds.Write(ctx, "")
		metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
		slog.Info("admin login failed", "kind", model.KindOf(err), "error", err)
		return nil, err
	}
	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	slog.Info("admin login succeeded", "account_id", account.ID)
	return account, nil
}

func (s *AuthService) login(ctx context.Context, creds Credentials, form LoginForm) (*model.LoginAccount, error) {
	form.ID = strings.TrimSpace(form.ID)
	if err := s.check(form); err != nil {
		return nil, err
	}

	res, err := s.api.Login(ctx, s.LoginEmail(form.ID), form.Password)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(res.AccessToken) == "" {
		return nil, &model.APIError{
			Kind:    model.KindServerRejected,
			Message: "login response missing access_token",
		}
	}
	if model.Role(strings.TrimSpace(res.Account.Role)) != model.RoleAdmin {
		return nil, &model.APIError{
			Kind:    model.KindAuthorizationDenied,
			Message: "ADMIN role required",
		}
	}

	creds.Write(ctx, res.AccessToken)
	return &res.Account, nil
}

// ChangePassword validates the form and submits it. Authentication of the
// call comes from ctx.
func (s *AuthService) ChangePassword(ctx context.Context, form PasswordForm) error {
	if err := s.check(form); err != nil {
		return err
	}
	if err := s.api.ChangePassword(ctx, form.Current, form.Next); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	return nil
}

func (s *AuthService) check(form any) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &FormError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return &FormError{Field: fe.Field(), Message: fieldLabel(fe.Field()) + " is required."}
	case "min":
		return &FormError{Field: fe.Field(), Message: fmt.Sprintf("%s must be at least %s characters.", fieldLabel(fe.Field()), fe.Param())}
	}
	return &FormError{Field: fe.Field(), Message: fieldLabel(fe.Field()) + " is invalid."}
}

func fieldLabel(field string) string {
	switch field {
	case "ID":
		return "ID"
	case "Current":
		return "Current password"
	case "Next":
		return "New password"
	}
	return field
}

func loginResult(err error) string {
	var formErr *FormError
	if errors.As(err, &formErr) {
		return "invalid"
	}
	switch model.KindOf(err) {
	case model.KindAuthorizationDenied:
		return "denied"
	case model.KindTransport:
		return "transport"
	}
	return "rejected"
}

// UserMessage renders err as display text. fallback is used when the error
// carries nothing better.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var formErr *FormError
	if errors.As(err, &formErr) {
		return formErr.Message
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}

	switch apiErr.Kind {
	case model.KindUnauthenticated:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Your session has expired. Please sign in again."
	case model.KindTransport:
		if apiErr.Timeout() {
			return "The server did not respond in time."
		}
		return "Could not reach the server."
	case model.KindAuthorizationDenied:
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "ADMIN role required"
	}

	if apiErr.Message != "" {
		return apiErr.Message
	}
	if apiErr.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d)", fallback, apiErr.Status)
	}
	return fallback
}
