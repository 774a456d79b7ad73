package adminapi

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/metrics"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the {status, message, data} envelope of POST /auth/login.
type loginResponse struct {
	Data struct {
		AccessToken  string             `json:"access_token"`
		RefreshToken string             `json:"refresh_token"`
		User         model.LoginAccount `json:"user"`
	} `json:"data"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login exchanges credentials for an access token. It does not check the
// returned role; that policy belongs to the caller.
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	resp, err := c.Post(ctx, "/auth/login", nil, loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var body loginResponse
	if err := resp.Decode(&body); err != nil {
		return nil, &model.APIError{
			Kind:    model.KindServerRejected,
			Status:  resp.Status,
			Message: "malformed login response",
			Err:     err,
		}
	}

	return &model.LoginResult{
		AccessToken:  strings.TrimSpace(body.Data.AccessToken),
		RefreshToken: body.Data.RefreshToken,
		Account:      body.Data.User,
	}, nil
}

// ChangePassword changes the signed-in administrator's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	_, err := c.Post(ctx, "/admin/auth/change-password", nil, changePasswordRequest{
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	})
	return err
}

// ListUsers fetches a page of /admin/users.
func (c *Client) ListUsers(ctx context.Context, q model.ListQuery) (model.ListResult[model.User], error) {
	raw, err := c.list(ctx, model.ResourceUsers, q)
	if err != nil {
		return model.EmptyList[model.User](), err
	}
	return ConvertList[model.User](raw), nil
}

// GetUser fetches one user as a loose record.
func (c *Client) GetUser(ctx context.Context, id string) (model.Record, error) {
	return c.record(ctx, model.ResourceUsers, id)
}

// ListCaregivers fetches a page of /admin/caregivers.
func (c *Client) ListCaregivers(ctx context.Context, q model.ListQuery) (model.ListResult[model.Caregiver], error) {
	raw, err := c.list(ctx, model.ResourceCaregivers, q)
	if err != nil {
		return model.EmptyList[model.Caregiver](), err
	}
	return ConvertList[model.Caregiver](raw), nil
}

// ListCareRequests fetches a page of /admin/care-requests.
func (c *Client) ListCareRequests(ctx context.Context, q model.ListQuery) (model.ListResult[model.Record], error) {
	raw, err := c.list(ctx, model.ResourceCareRequests, q)
	if err != nil {
		return model.EmptyList[model.Record](), err
	}
	return ConvertList[model.Record](raw), nil
}

// ListMatches fetches a page of /admin/matches.
func (c *Client) ListMatches(ctx context.Context, q model.ListQuery) (model.ListResult[model.Match], error) {
	raw, err := c.list(ctx, model.ResourceMatches, q)
	if err != nil {
		return model.EmptyList[model.Match](), err
	}
	return ConvertList[model.Match](raw), nil
}

// GetMatch fetches one match as a loose record.
func (c *Client) GetMatch(ctx context.Context, id string) (model.Record, error) {
	return c.record(ctx, model.ResourceMatches, id)
}

// ListReports fetches a page of /admin/reports.
func (c *Client) ListReports(ctx context.Context, q model.ListQuery) (model.ListResult[model.Record], error) {
	raw, err := c.list(ctx, model.ResourceReports, q)
	if err != nil {
		return model.EmptyList[model.Record](), err
	}
	return ConvertList[model.Record](raw), nil
}

// Count asks for a one-row page and returns the reported collection size.
func (c *Client) Count(ctx context.Context, resource model.Resource) (*int, error) {
	raw, err := c.list(ctx, resource, model.ListQuery{Page: 1, Limit: 1})
	if err != nil {
		return nil, err
	}
	return raw.Total, nil
}

func (c *Client) list(ctx context.Context, resource model.Resource, q model.ListQuery) (model.ListResult[any], error) {
	resp, err := c.Get(ctx, resource.Path(), listValues(q))
	if err != nil {
		return model.EmptyList[any](), err
	}

	payload, err := resp.Payload()
	if err != nil {
		c.logger.Warn("list response is not JSON", "resource", resource, "error", err)
	}

	result := NormalizeList(payload)
	metrics.ListShapesTotal.WithLabelValues(string(result.Shape)).Inc()
	if !result.Shape.Recognized() {
		c.logger.Warn("unrecognized list response shape", "resource", resource)
	}
	return result, nil
}

func (c *Client) record(ctx context.Context, resource model.Resource, id string) (model.Record, error) {
	resp, err := c.Get(ctx, resource.Path()+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	payload, err := resp.Payload()
	if err != nil {
		return nil, &model.APIError{
			Kind:    model.KindServerRejected,
			Status:  resp.Status,
			Message: "malformed " + string(resource) + " response",
			Err:     err,
		}
	}
	rec, ok := payload.(map[string]any)
	if !ok {
		return model.Record{}, nil
	}
	return model.Record(rec), nil
}

func listValues(q model.ListQuery) url.Values {
	def := model.DefaultListQuery()
	if q.Page < 1 {
		q.Page = def.Page
	}
	if q.Limit < 1 {
		q.Limit = def.Limit
	}

	v := url.Values{}
	if s := strings.TrimSpace(q.Q); s != "" {
		v.Set("q", s)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}
