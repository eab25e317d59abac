package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/circa-backend/internal/auth"
	"github.com/spec-kit/circa-backend/internal/domain"
	apperrors "github.com/spec-kit/circa-backend/pkg/util"
)

// fakeUserRepo is an in-memory stand-in for the Postgres repository.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo(seed ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range seed {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func seedUser(id string, email string, role domain.Role) *domain.User {
	return &domain.User{
		ID:      id,
		Name:    "John",
		Surname: "Doe",
		Email:   email,
		Phone:   "123",
		Role:    role,
		Status:  domain.UserStatusActive,
	}
}

func newUserService(repo *fakeUserRepo) *UserService {
	return NewUserService(repo, auth.NewPolicy(nil), nil, nil)
}

func testClaims(sub string, role domain.Role) *auth.Claims {
	c := &auth.Claims{Role: role}
	c.Subject = sub
	return c
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	return domainErr.HTTPStatus
}

func TestUserServiceGet(t *testing.T) {
	repo := newFakeUserRepo(seedUser("1", "john@example.com", domain.RoleVolunteer))
	svc := newUserService(repo)

	user, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", user.Email)

	_, err = svc.Get(context.Background(), "missing")
	assert.Equal(t, 404, statusOf(t, err))
}

func TestUserServiceCreateDefaultsActive(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)

	user, err := svc.Create(context.Background(), CreateUserInput{
		Name:    "Jane",
		Surname: "Doe",
		Email:   "jane@example.com",
		Phone:   "456",
		Role:    domain.RoleStaff,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.UserStatusActive, user.Status)
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo(seedUser("1", "john@example.com", domain.RoleVolunteer))
	svc := newUserService(repo)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Name:    "Johnny",
		Surname: "Doe",
		Email:   "john@example.com",
		Phone:   "789",
		Role:    domain.RoleStaff,
	})
	assert.Equal(t, 409, statusOf(t, err))
}

func TestUserServiceUpdateAuthorization(t *testing.T) {
	newName := "Updated"

	tests := []struct {
		name       string
		claims     *auth.Claims
		wantStatus int
	}{
		{"self update allowed", testClaims("1", domain.RoleVolunteer), 0},
		{"other volunteer denied", testClaims("2", domain.RoleVolunteer), 403},
		{"organizer allowed", testClaims("x", domain.RoleOrganizer), 0},
		{"admin allowed", testClaims("x", domain.RoleAdmin), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo(seedUser("1", "john@example.com", domain.RoleVolunteer))
			svc := newUserService(repo)

			user, err := svc.Update(context.Background(), "1", UpdateUserInput{Name: &newName}, tc.claims)
			if tc.wantStatus == 0 {
				require.NoError(t, err)
				assert.Equal(t, newName, user.Name)
			} else {
				assert.Equal(t, tc.wantStatus, statusOf(t, err))
			}
		})
	}
}

func TestUserServiceUpdateAppliesPartialFields(t *testing.T) {
	repo := newFakeUserRepo(seedUser("1", "john@example.com", domain.RoleVolunteer))
	svc := newUserService(repo)

	phone := "999"
	status := domain.UserStatusInactive
	user, err := svc.Update(context.Background(), "1", UpdateUserInput{Phone: &phone, Status: &status}, testClaims("x", domain.RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, "999", user.Phone)
	assert.Equal(t, domain.UserStatusInactive, user.Status)
	assert.Equal(t, "John", user.Name)
	assert.Equal(t, "john@example.com", user.Email)
}

func TestUserServiceDeleteAuthorization(t *testing.T) {
	tests := []struct {
		name       string
		claims     *auth.Claims
		target     string
		wantStatus int
	}{
		{"owner deletes self", testClaims("1", domain.RoleVolunteer), "1", 0},
		{"other volunteer denied", testClaims("2", domain.RoleVolunteer), "1", 403},
		{"organizer denied", testClaims("x", domain.RoleOrganizer), "1", 403},
		{"admin allowed", testClaims("x", domain.RoleAdmin), "1", 0},
		{"admin on missing id", testClaims("x", domain.RoleAdmin), "missing", 404},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeUserRepo(seedUser("1", "john@example.com", domain.RoleVolunteer))
			svc := newUserService(repo)

			err := svc.Delete(context.Background(), tc.target, tc.claims)
			if tc.wantStatus == 0 {
				require.NoError(t, err)
				_, err := repo.GetByID(context.Background(), tc.target)
				assert.ErrorIs(t, err, pgx.ErrNoRows)
			} else {
				assert.Equal(t, tc.wantStatus, statusOf(t, err))
			}
		})
	}
}

// A denied caller must not learn whether the target exists: denial wins over
// not-found for a missing target.
func TestUserServiceDenialHidesExistence(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo)

	err := svc.Delete(context.Background(), "missing", testClaims("2", domain.RoleVolunteer))
	assert.Equal(t, 403, statusOf(t, err))
}
