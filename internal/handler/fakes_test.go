package handler

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sort"
	"sync"
	"time"

	"todo_api/internal/middleware"
	"todo_api/internal/model"
	"todo_api/internal/repository"
	"todo_api/internal/service"
	"todo_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type memTodoRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.TodoItem
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{items: map[uuid.UUID]model.TodoItem{}}
}

func (r *memTodoRepo) Create(_ context.Context, item *model.TodoItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = *item
	return nil
}

func (r *memTodoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r *memTodoRepo) FindSince(_ context.Context, since time.Time) ([]model.TodoItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []model.TodoItem{}
	for _, item := range r.items {
		if !item.CreatedAt.Before(since) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *memTodoRepo) Update(_ context.Context, item *model.TodoItem) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return false, nil
	}
	stored.Title = item.Title
	stored.Description = item.Description
	stored.IsDone = item.IsDone
	r.items[item.ID] = stored
	return true, nil
}

func (r *memTodoRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
	roles map[uuid.UUID][]string
	known []string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users: map[uuid.UUID]model.User{},
		roles: map[uuid.UUID][]string{},
		known: slices.Clone(model.Roles),
	}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User, roles ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}
	for _, role := range roles {
		if !slices.Contains(r.known, role) {
			return repository.ErrRoleNotFound
		}
	}
	r.users[user.ID] = *user
	r.roles[user.ID] = slices.Clone(roles)
	user.Roles = slices.Clone(roles)
	return nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetRoles(_ context.Context, userID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles := slices.Clone(r.roles[userID])
	slices.Sort(roles)
	return roles, nil
}

func (r *memUserRepo) AssignRole(_ context.Context, userID uuid.UUID, roleName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.known, roleName) {
		return repository.ErrRoleNotFound
	}
	if !slices.Contains(r.roles[userID], roleName) {
		r.roles[userID] = append(r.roles[userID], roleName)
	}
	return nil
}

func (r *memUserRepo) EnsureRoles(_ context.Context, names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		if !slices.Contains(r.known, name) {
			r.known = append(r.known, name)
		}
	}
	return nil
}

func (r *memUserRepo) CountUsers(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type failingTodoService struct{}

var errBoom = errors.New("boom")

func (failingTodoService) Create(context.Context, model.CreateTodoRequest) (*model.TodoItem, error) {
	return nil, errBoom
}

func (failingTodoService) GetAll(context.Context, *time.Time) ([]model.TodoItem, error) {
	return nil, errBoom
}

func (failingTodoService) GetByID(context.Context, uuid.UUID) (*model.TodoItem, error) {
	return nil, errBoom
}

func (failingTodoService) Update(context.Context, uuid.UUID, model.UpdateTodoRequest) error {
	return errBoom
}

func (failingTodoService) Delete(context.Context, uuid.UUID) error {
	return errBoom
}

type testEnv struct {
	router  *gin.Engine
	jwtUtil *utils.JWTUtil
	todos   *memTodoRepo
	users   *memUserRepo
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		jwtUtil: utils.NewJWTUtil("test-secret", "todo-api", "todo-api-clients", time.Hour),
		todos:   newMemTodoRepo(),
		users:   newMemUserRepo(),
	}
	env.router = newTestRouter(service.NewTodoService(env.todos), service.NewAuthService(env.users, env.jwtUtil), env.jwtUtil)
	return env
}

func newTestRouter(todos service.TodoService, auth service.AuthService, jwtUtil *utils.JWTUtil) *gin.Engine {
	r := gin.New()
	root := r.Group("")
	NewAuthHandler(auth).RegisterAuthRoutes(root)
	NewTodoHandler(todos).RegisterTodoRoutes(root,
		middleware.JWTAuthMiddleware(jwtUtil),
		middleware.UserMiddleware(),
	)
	return r
}

func (e *testEnv) token(roles ...string) string {
	token, err := e.jwtUtil.GenerateToken(uuid.New(), "tester", roles)
	if err != nil {
		panic(err)
	}
	return token
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
