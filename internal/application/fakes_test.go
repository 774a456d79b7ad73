package application_test

import (
	"context"
	"errors"
	"sync"

	"github.com/ericfisherdev/dongdong-admin/internal/domain/model"
)

// --- Mock implementations ---

type slotKey struct{ scope, name string }

type fakeSlotStore struct {
	mu      sync.Mutex
	slots   map[slotKey]string
	getErr  error
	setErr  error
	gets    int
	sets    int
	deletes int
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{slots: map[slotKey]string{}}
}

func (f *fakeSlotStore) Get(_ context.Context, scope, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.slots[slotKey{scope, name}], nil
}

func (f *fakeSlotStore) Set(_ context.Context, scope, name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.slots[slotKey{scope, name}] = value
	return nil
}

func (f *fakeSlotStore) Delete(_ context.Context, scope, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.setErr != nil {
		return f.setErr
	}
	delete(f.slots, slotKey{scope, name})
	return nil
}

func (f *fakeSlotStore) List(_ context.Context, scope string) ([]model.CredentialSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.CredentialSlot
	for k, v := range f.slots {
		if k.scope == scope {
			out = append(out, model.CredentialSlot{Scope: k.scope, Name: k.name, Value: v})
		}
	}
	return out, nil
}

func (f *fakeSlotStore) value(scope string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.slots[slotKey{scope, model.AccessTokenSlot}]
	return v, ok
}

// memCreds is an in-memory Credentials implementation.
type memCreds struct {
	mu     sync.Mutex
	value  string
	writes []string
}

func (m *memCreds) Read(context.Context) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.value != ""
}

func (m *memCreds) Write(_ context.Context, v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = v
	m.writes = append(m.writes, v)
}

// countingNav records redirects to login.
type countingNav struct {
	mu    sync.Mutex
	count int
}

func (n *countingNav) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func (n *countingNav) redirects() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

type mockAdminAPI struct {
	login          func(ctx context.Context, email, password string) (*model.LoginResult, error)
	changePassword func(ctx context.Context, current, next string) error
	count          func(ctx context.Context, r model.Resource) (*int, error)
	getMatch       func(ctx context.Context, id string) (model.Record, error)
}

func (m *mockAdminAPI) Login(ctx context.Context, email, password string) (*model.LoginResult, error) {
	return m.login(ctx, email, password)
}

func (m *mockAdminAPI) ChangePassword(ctx context.Context, current, next string) error {
	return m.changePassword(ctx, current, next)
}

func (m *mockAdminAPI) ListUsers(context.Context, model.ListQuery) (model.ListResult[model.User], error) {
	return model.EmptyList[model.User](), nil
}

func (m *mockAdminAPI) GetUser(context.Context, string) (model.Record, error) {
	return model.Record{}, nil
}

func (m *mockAdminAPI) ListCaregivers(context.Context, model.ListQuery) (model.ListResult[model.Caregiver], error) {
	return model.EmptyList[model.Caregiver](), nil
}

func (m *mockAdminAPI) ListCareRequests(context.Context, model.ListQuery) (model.ListResult[model.Record], error) {
	return model.EmptyList[model.Record](), nil
}

func (m *mockAdminAPI) ListMatches(context.Context, model.ListQuery) (model.ListResult[model.Match], error) {
	return model.EmptyList[model.Match](), nil
}

func (m *mockAdminAPI) GetMatch(ctx context.Context, id string) (model.Record, error) {
	return m.getMatch(ctx, id)
}

func (m *mockAdminAPI) ListReports(context.Context, model.ListQuery) (model.ListResult[model.Record], error) {
	return model.EmptyList[model.Record](), nil
}

func (m *mockAdminAPI) Count(ctx context.Context, r model.Resource) (*int, error) {
	return m.count(ctx, r)
}

var errBoom = errors.New("boom")

func unauthenticated() error {
	return &model.APIError{Kind: model.KindUnauthenticated, Status: 401}
}
