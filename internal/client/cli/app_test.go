package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	pingErr error

	registerErr error
	loginErr    error
	gotEmail    string
	gotPassword string
	gotName     string

	list     *client.PostList
	gotPage  int
	gotLimit int

	post         *client.Post
	getErr       error
	gotToken     string
	gotTitle     *string
	gotContent   *string
	createdTitle string
	createdBody  string
	deletedID    string
	deleteErr    error
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) Register(_ context.Context, name, email, password string) (*client.Session, error) {
	f.gotName, f.gotEmail, f.gotPassword = name, email, password
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &client.Session{ID: "u1", Name: name, Email: email, Token: "tok-reg"}, nil
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*client.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &client.Session{ID: "u1", Name: "Alice", Email: email, Token: "tok-login"}, nil
}

func (f *fakeAPI) Me(_ context.Context, token string) (*client.User, error) {
	f.gotToken = token
	return &client.User{ID: "u1", Name: "Alice", Email: "alice@example.com", CreatedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeAPI) ListPosts(_ context.Context, page, limit int) (*client.PostList, error) {
	f.gotPage, f.gotLimit = page, limit
	return f.list, nil
}

func (f *fakeAPI) GetPost(context.Context, string) (*client.Post, error) {
	return f.post, f.getErr
}

func (f *fakeAPI) CreatePost(_ context.Context, token, title, content string) (*client.Post, error) {
	f.gotToken, f.createdTitle, f.createdBody = token, title, content
	return &client.Post{ID: "p-new", Title: title, Content: content}, nil
}

func (f *fakeAPI) UpdatePost(_ context.Context, token, id string, title, content *string) (*client.Post, error) {
	f.gotToken, f.gotTitle, f.gotContent = token, title, content
	p := &client.Post{ID: id, Title: "old", Content: "old body"}
	if title != nil {
		p.Title = *title
	}
	if content != nil {
		p.Content = *content
	}
	return p, nil
}

func (f *fakeAPI) DeletePost(_ context.Context, token, id string) error {
	f.gotToken, f.deletedID = token, id
	return f.deleteErr
}

func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	oldPw := getPassword
	getPassword = func(io.Writer) (string, error) { return "pw", nil }
	t.Cleanup(func() { getPassword = oldPw })

	out := &bytes.Buffer{}
	return &App{
		config: cfg,
		api:    api,
		reader: bufio.NewReader(strings.NewReader(input)),
		out:    out,
	}, out
}

func TestNewApp_ValidatesConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	app, err := NewApp(cfg)
	require.NoError(t, err)
	assert.False(t, app.isLoggedIn())

	cfg.ServerURL = ""
	_, err = NewApp(cfg)
	require.Error(t, err)
}

func TestRegister_StoresSession(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "Alice\nalice@example.com\n")

	require.NoError(t, app.Register(context.Background()))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "Alice", api.gotName)
	assert.Equal(t, "alice@example.com", api.gotEmail)
	assert.Equal(t, "pw", api.gotPassword)
	assert.Contains(t, out.String(), "Welcome, Alice!")
	assert.Equal(t, " (alice@example.com)", app.getStatus())
}

func TestLogin_FailureKeepsLoggedOut(t *testing.T) {
	api := &fakeAPI{loginErr: &client.APIError{StatusCode: 401, Message: "Invalid credentials"}}
	app, _ := newTestApp(t, api, "a@b.c\n")

	err := app.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "", app.getStatus())
}

func TestLoginMeLogout(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "alice@example.com\n")
	ctx := context.Background()

	require.NoError(t, app.Login(ctx))
	require.NoError(t, app.Me(ctx))
	assert.Equal(t, "tok-login", api.gotToken)
	assert.Contains(t, out.String(), "Alice <alice@example.com>")
	assert.Contains(t, out.String(), "member since: 2024-02-03")

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
	assert.ErrorIs(t, app.Logout(ctx), ErrNotLoggedIn)
	assert.ErrorIs(t, app.Me(ctx), ErrNotLoggedIn)
}

func TestPrivateCommandsRequireLogin(t *testing.T) {
	app, _ := newTestApp(t, &fakeAPI{}, "")
	ctx := context.Background()

	assert.ErrorIs(t, app.Post(ctx), ErrNotLoggedIn)
	assert.ErrorIs(t, app.Edit(ctx, []string{"p1"}), ErrNotLoggedIn)
	assert.ErrorIs(t, app.Delete(ctx, []string{"p1"}), ErrNotLoggedIn)
}

func TestList(t *testing.T) {
	list := &client.PostList{Total: 25, Page: 2, Pages: 3, Data: []client.Post{
		{ID: "p1", Title: "First", Author: &client.Author{ID: "u1", Name: "Alice"}},
		{ID: "p2", Title: "Second", Author: &client.Author{ID: "u2"}},
	}}
	list.Pagination.Next = &client.PageRef{Page: 3, Limit: 10}
	list.Pagination.Prev = &client.PageRef{Page: 1, Limit: 10}

	api := &fakeAPI{list: list}
	app, out := newTestApp(t, api, "")

	require.NoError(t, app.List(context.Background(), []string{"2", "10"}))
	assert.Equal(t, 2, api.gotPage)
	assert.Equal(t, 10, api.gotLimit)

	s := out.String()
	assert.Contains(t, s, "p1  First  by Alice")
	assert.Contains(t, s, "p2  Second  by u2")
	assert.Contains(t, s, "page 2/3, 25 posts | prev: list 1 10 | next: list 3 10")
}

func TestList_DefaultsAndBadArgs(t *testing.T) {
	api := &fakeAPI{list: &client.PostList{Page: 1, Pages: 1}}
	app, out := newTestApp(t, api, "")
	ctx := context.Background()

	require.NoError(t, app.List(ctx, nil))
	assert.Equal(t, 1, api.gotPage)
	assert.Equal(t, 10, api.gotLimit)
	assert.Contains(t, out.String(), "No posts")

	assert.Error(t, app.List(ctx, []string{"x"}))
	assert.Error(t, app.List(ctx, []string{"1", "0"}))
}

func TestShow(t *testing.T) {
	created := time.Date(2024, 3, 4, 5, 6, 0, 0, time.UTC)
	api := &fakeAPI{post: &client.Post{
		ID: "p1", Title: "Hello", Content: "Body",
		Author: &client.Author{Name: "Alice"}, CreatedAt: created, UpdatedAt: created.Add(time.Hour),
	}}
	app, out := newTestApp(t, api, "")

	assert.Error(t, app.Show(context.Background(), nil))

	require.NoError(t, app.Show(context.Background(), []string{"p1"}))
	s := out.String()
	assert.Contains(t, s, "Hello\nby Alice on 2024-03-04 05:06")
	assert.Contains(t, s, "Body")
	assert.Contains(t, s, "(edited 2024-03-04 06:06)")

	api.getErr = client.ErrNotFound
	assert.ErrorIs(t, app.Show(context.Background(), []string{"p1"}), client.ErrNotFound)
}

func TestPost(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "My title\nline one\nline two\n\n")
	app.session = &client.Session{Token: "tok"}

	require.NoError(t, app.Post(context.Background()))
	assert.Equal(t, "tok", api.gotToken)
	assert.Equal(t, "My title", api.createdTitle)
	assert.Equal(t, "line one\nline two", api.createdBody)
	assert.Contains(t, out.String(), "Published p-new")
}

func TestEdit_PartialUpdate(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "New title\n\n")
	app.session = &client.Session{Token: "tok"}

	require.NoError(t, app.Edit(context.Background(), []string{"p1"}))
	require.NotNil(t, api.gotTitle)
	assert.Equal(t, "New title", *api.gotTitle)
	assert.Nil(t, api.gotContent)
	assert.Contains(t, out.String(), "Updated")
}

func TestEdit_NothingToChange(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "\n\n")
	app.session = &client.Session{Token: "tok"}

	require.NoError(t, app.Edit(context.Background(), []string{"p1"}))
	assert.Empty(t, api.gotToken)
	assert.Contains(t, out.String(), "Nothing to change")
}

func TestDelete(t *testing.T) {
	api := &fakeAPI{}
	app, out := newTestApp(t, api, "n\ny\n")
	app.session = &client.Session{Token: "tok"}
	ctx := context.Background()

	require.NoError(t, app.Delete(ctx, []string{"p1"}))
	assert.Empty(t, api.deletedID)
	assert.Contains(t, out.String(), "Cancelled")

	require.NoError(t, app.Delete(ctx, []string{"p1"}))
	assert.Equal(t, "p1", api.deletedID)
	assert.Contains(t, out.String(), "Deleted")

	assert.Error(t, app.Delete(ctx, nil))
}

func TestDelete_ServerRefuses(t *testing.T) {
	api := &fakeAPI{deleteErr: &client.APIError{StatusCode: 401, Message: "Not authorized to delete this post"}}
	app, _ := newTestApp(t, api, "y\n")
	app.session = &client.Session{Token: "tok"}

	err := app.Delete(context.Background(), []string{"p1"})
	require.Error(t, err)
	assert.Equal(t, "Not authorized to delete this post", err.Error())
}

func TestRun_WarnsWhenUnreachable(t *testing.T) {
	capturePrint(t)
	api := &fakeAPI{pingErr: errors.New("connection refused")}
	app, out := newTestApp(t, api, "exit\n")
	app.session = &client.Session{Token: "tok"}

	app.Run(context.Background())
	assert.Contains(t, out.String(), "is not reachable")
	assert.False(t, app.isLoggedIn())
}
