package web

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ericfisherdev/dongdong-admin/internal/application"
	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

type slotKey struct{ scope, name string }

type memSlots struct {
	mu    sync.Mutex
	slots map[slotKey]string
}

func newMemSlots() *memSlots {
	return &memSlots{slots: map[slotKey]string{}}
}

func (m *memSlots) Get(_ context.Context, scope, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[slotKey{scope, name}], nil
}

func (m *memSlots) Set(_ context.Context, scope, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slotKey{scope, name}] = value
	return nil
}

func (m *memSlots) Delete(_ context.Context, scope, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, slotKey{scope, name})
	return nil
}

func (m *memSlots) List(_ context.Context, scope string) ([]model.CredentialSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CredentialSlot
	for k, v := range m.slots {
		if k.scope == scope {
			out = append(out, model.CredentialSlot{Scope: k.scope, Name: k.name, Value: v})
		}
	}
	return out, nil
}

func (m *memSlots) token(scope string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[slotKey{scope, model.AccessTokenSlot}]
}

// fakeAPI answers every AdminAPI call from its func fields; unset fields
// return empty results.
type fakeAPI struct {
	login          func(ctx context.Context, email, password string) (*model.LoginResult, error)
	changePassword func(ctx context.Context, current, next string) error
	listUsers      func(ctx context.Context, q model.ListQuery) (model.ListResult[model.User], error)
	getUser        func(ctx context.Context, id string) (model.Record, error)
	getMatch       func(ctx context.Context, id string) (model.Record, error)
	count          func(ctx context.Context, r model.Resource) (*int, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeAPI) hit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	f.hit()
	return f.login(ctx, email, password)
}

func (f *fakeAPI) ChangePassword(ctx context.Context, current, next string) error {
	f.hit()
	if f.changePassword == nil {
		return nil
	}
	return f.changePassword(ctx, current, next)
}

func (f *fakeAPI) ListUsers(ctx context.Context, q model.ListQuery) (model.ListResult[model.User], error) {
	f.hit()
	if f.listUsers == nil {
		return model.EmptyList[model.User](), nil
	}
	return f.listUsers(ctx, q)
}

func (f *fakeAPI) GetUser(ctx context.Context, id string) (model.Record, error) {
	f.hit()
	if f.getUser == nil {
		return model.Record{}, nil
	}
	return f.getUser(ctx, id)
}

func (f *fakeAPI) ListCaregivers(context.Context, model.ListQuery) (model.ListResult[model.Caregiver], error) {
	f.hit()
	return model.EmptyList[model.Caregiver](), nil
}

func (f *fakeAPI) ListCareRequests(context.Context, model.ListQuery) (model.ListResult[model.Record], error) {
	f.hit()
	return model.EmptyList[model.Record](), nil
}

func (f *fakeAPI) ListMatches(context.Context, model.ListQuery) (model.ListResult[model.Match], error) {
	f.hit()
	return model.EmptyList[model.Match](), nil
}

func (f *fakeAPI) GetMatch(ctx context.Context, id string) (model.Record, error) {
	f.hit()
	if f.getMatch == nil {
		return model.Record{}, nil
	}
	return f.getMatch(ctx, id)
}

func (f *fakeAPI) ListReports(context.Context, model.ListQuery) (model.ListResult[model.Record], error) {
	f.hit()
	return model.EmptyList[model.Record](), nil
}

func (f *fakeAPI) Count(ctx context.Context, r model.Resource) (*int, error) {
	f.hit()
	if f.count == nil {
		return nil, nil
	}
	return f.count(ctx, r)
}

func newTestMux(api *fakeAPI) (*http.ServeMux, *memSlots) {
	slots := newMemSlots()
	h := NewHandler(
		application.NewAuthService(api, ""),
		application.NewConsoleService(api),
		slots,
		Options{},
		slog.New(slog.DiscardHandler),
	)
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return mux, slots
}
