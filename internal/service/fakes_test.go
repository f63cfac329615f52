package service

import (
	"context"
	"io"
	"sync"

	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/query"
	"github.com/tyrecheck/tyrecheck-go/internal/repository"
)

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int64
	// raceOnCreate simulates a concurrent signup winning between the
	// pre-check and the insert.
	raceOnCreate bool
	err          error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Name]; ok || f.raceOnCreate {
		return repository.ErrDuplicateUser
	}
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[user.Name] = &stored
	return nil
}

func (f *fakeUserStore) GetByName(_ context.Context, name string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[name]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) delete(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, name)
}

type fakeClaimStore struct {
	total   int
	rows    []model.Row
	err     error
	filter  query.ClaimFilter
	page    query.Page
	updated *model.UpdateClaimRequest
	export  *model.ExportRequest
}

func (f *fakeClaimStore) ListClaims(_ context.Context, filter query.ClaimFilter, page query.Page) (int, []model.Row, error) {
	f.filter, f.page = filter, page
	return f.total, f.rows, f.err
}

func (f *fakeClaimStore) GetClaimDetails(_ context.Context, claimID string) ([]model.Row, error) {
	f.filter.ClaimID = claimID
	return f.rows, f.err
}

func (f *fakeClaimStore) UpdateClaimResult(_ context.Context, req model.UpdateClaimRequest) error {
	f.updated = &req
	return f.err
}

func (f *fakeClaimStore) ExportReport(_ context.Context, req model.ExportRequest) ([]model.Row, error) {
	f.export = &req
	return f.rows, f.err
}

type fakeReportStore struct {
	pct, count, ai []model.Row
	err            error
	calls          []model.ReportParams
}

func (f *fakeReportStore) PercentageReport(_ context.Context, p model.ReportParams) ([]model.Row, error) {
	f.calls = append(f.calls, p)
	return f.pct, f.err
}

func (f *fakeReportStore) CountReport(_ context.Context, p model.ReportParams) ([]model.Row, error) {
	f.calls = append(f.calls, p)
	return f.count, f.err
}

func (f *fakeReportStore) AISummary(_ context.Context, p model.ReportParams) ([]model.Row, error) {
	f.calls = append(f.calls, p)
	return f.ai, f.err
}

type fakeImageStore struct {
	folder, filename, contentType string
	body                          []byte
	err                           error
}

func (f *fakeImageStore) Save(_ context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.folder, f.filename, f.contentType, f.body = folder, filename, contentType, data
	return "uploads/" + folder + "/" + filename, nil
}
