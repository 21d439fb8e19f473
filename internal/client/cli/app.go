package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
)

// ErrNotLoggedIn is returned by commands that need a token.
var ErrNotLoggedIn = errors.New("not logged in, use 'login' or 'register' first")

// blogAPI is the part of client.HTTPClient the commands use.
type blogAPI interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, name, email, password string) (*client.Session, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Me(ctx context.Context, token string) (*client.User, error)
	ListPosts(ctx context.Context, page, limit int) (*client.PostList, error)
	GetPost(ctx context.Context, id string) (*client.Post, error)
	CreatePost(ctx context.Context, token, title, content string) (*client.Post, error)
	UpdatePost(ctx context.Context, token, id string, title, content *string) (*client.Post, error)
	DeletePost(ctx context.Context, token, id string) error
}

type App struct {
	config  *config.Config
	api     blogAPI
	session *client.Session
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) token() (string, error) {
	if a.session == nil {
		return "", ErrNotLoggedIn
	}
	return a.session.Token, nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", a.session.Email)
}

// Run checks that the server is reachable and starts the REPL.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to gophblog CLI (type 'help' for commands)")

	if err := a.api.Ping(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable: %v\n", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	a.session = nil
}
