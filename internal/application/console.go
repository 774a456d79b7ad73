package application

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/port/driven"
)

// ConsoleService loads the data behind each console screen. It depends only
// on the AdminAPI port; authentication comes from ctx.
type ConsoleService struct {
	api driven.AdminAPI
}

// NewConsoleService creates a ConsoleService.
func NewConsoleService(api driven.AdminAPI) *ConsoleService {
	return &ConsoleService{api: api}
}

// Dashboard fetches the four headline counts concurrently. The first
// failure cancels the rest and is returned.
func (s *ConsoleService) Dashboard(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats

	g, gctx := errgroup.WithContext(ctx)
	count := func(resource model.Resource, dst **int) {
		g.Go(func() error {
			n, err := s.api.Count(gctx, resource)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(model.ResourceUsers, &stats.Users)
	count(model.ResourceCaregivers, &stats.Caregivers)
	count(model.ResourceCareRequests, &stats.CareRequests)
	count(model.ResourceMatches, &stats.Matches)

	if err := g.Wait(); err != nil {
		return model.DashboardStats{}, err
	}
	return stats, nil
}

// Users lists users matching q.
func (s *ConsoleService) Users(ctx context.Context, q model.ListQuery) (model.ListResult[model.User], error) {
	return s.api.ListUsers(ctx, q)
}

// User loads one user with its caregiver profile and patients.
func (s *ConsoleService) User(ctx context.Context, id string) (model.Record, error) {
	return s.api.GetUser(ctx, id)
}

// Caregivers lists caregivers matching q.
func (s *ConsoleService) Caregivers(ctx context.Context, q model.ListQuery) (model.ListResult[model.Caregiver], error) {
	return s.api.ListCaregivers(ctx, q)
}

// CareRequests lists care requests.
func (s *ConsoleService) CareRequests(ctx context.Context, q model.ListQuery) (model.ListResult[model.Record], error) {
	return s.api.ListCareRequests(ctx, q)
}

// Matches lists matches.
func (s *ConsoleService) Matches(ctx context.Context, q model.ListQuery) (model.ListResult[model.Match], error) {
	return s.api.ListMatches(ctx, q)
}

// MatchDetail is a match record with its indented JSON rendering.
type MatchDetail struct {
	Record model.Record
	Pretty string
}

// Match loads one match.
func (s *ConsoleService) Match(ctx context.Context, id string) (MatchDetail, error) {
	rec, err := s.api.GetMatch(ctx, id)
	if err != nil {
		return MatchDetail{}, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return MatchDetail{Record: rec}, nil
	}
	return MatchDetail{Record: rec, Pretty: strings.TrimRight(buf.String(), "\n")}, nil
}

// Reports lists reports.
func (s *ConsoleService) Reports(ctx context.Context, q model.ListQuery) (model.ListResult[model.Record], error) {
	return s.api.ListReports(ctx, q)
}
