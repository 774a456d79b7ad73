package driven

import (
	"context"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

// AdminAPI defines the driven port for the remote administrative API.
// Every failure is an *model.APIError; callers branch on its Kind.
type AdminAPI interface {
	Login(ctx context.Context, email, password string) (*model.LoginResult, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	ListUsers(ctx context.Context, q model.ListQuery) (model.ListResult[model.User], error)
	GetUser(ctx context.Context, id string) (model.Record, error)
	ListCaregivers(ctx context.Context, q model.ListQuery) (model.ListResult[model.Caregiver], error)
	ListCareRequests(ctx context.Context, q model.ListQuery) (model.ListResult[model.Record], error)
	ListMatches(ctx context.Context, q model.ListQuery) (model.ListResult[model.Match], error)
	GetMatch(ctx context.Context, id string) (model.Record, error)
	ListReports(ctx context.Context, q model.ListQuery) (model.ListResult[model.Record], error)

	// Count returns the total size of a resource collection, or nil when the
	// backend does not report one.
	Count(ctx context.Context, resource model.Resource) (*int, error)
}
