package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memStore backs both fake repositories so posts can join their authors.
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	posts map[string]*models.Post
	clock time.Time

	// injected failures
	usersErr error
	postsErr error
	countErr error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.User{},
		posts: map[string]*models.Post{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type fakeRepoManager struct {
	store *memStore
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository            { return &fakeUsersRepo{m.store} }
func (m *fakeRepoManager) Posts(dbx.DBTX) posts.Repository            { return &fakePostsRepo{m.store} }

type fakeUsersRepo struct{ s *memStore }

func (r *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *u
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.s.tick()
	r.s.users[c.ID] = &c
	out := c
	out.PasswordHash = ""
	return &out, nil
}

func (r *fakeUsersRepo) GetByEmail(_ context.Context, email string, withPassword bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			if !withPassword {
				c.PasswordHash = ""
			}
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.usersErr != nil {
		return nil, r.s.usersErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	c.PasswordHash = ""
	return &c, nil
}

type fakePostsRepo struct{ s *memStore }

func (r *fakePostsRepo) joined(p *models.Post) *models.Post {
	c := *p
	c.Author = &models.PostAuthor{ID: p.AuthorID}
	if u, ok := r.s.users[p.AuthorID]; ok {
		c.Author.Name, c.Author.Email = u.Name, u.Email
	}
	return &c
}

func (r *fakePostsRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.postsErr != nil {
		return nil, r.s.postsErr
	}
	c := *p
	c.ID = uuid.NewString()
	c.CreatedAt = r.s.tick()
	c.UpdatedAt = c.CreatedAt
	r.s.posts[c.ID] = &c
	out := c
	out.Author = &models.PostAuthor{ID: c.AuthorID}
	return &out, nil
}

func (r *fakePostsRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.postsErr != nil {
		return nil, r.s.postsErr
	}
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.joined(p), nil
}

func (r *fakePostsRepo) GetForUpdate(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.postsErr != nil {
		return nil, r.s.postsErr
	}
	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakePostsRepo) Update(_ context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.posts[p.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.UpdatedAt = r.s.tick()
	c := *stored
	return &c, nil
}

func (r *fakePostsRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *fakePostsRepo) Count(context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.countErr != nil {
		return 0, r.s.countErr
	}
	return len(r.s.posts), nil
}

func (r *fakePostsRepo) List(_ context.Context, offset, limit int) ([]*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.postsErr != nil {
		return nil, r.s.postsErr
	}
	if offset < 0 || limit < 1 {
		return nil, fmt.Errorf("invalid window offset=%d limit=%d", offset, limit)
	}
	all := make([]*models.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		all = append(all, r.joined(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
