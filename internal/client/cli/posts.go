package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
)

func formatAuthor(a *client.Author) string {
	if a == nil {
		return "unknown"
	}
	if a.Name == "" {
		return a.ID
	}
	return a.Name
}

// List prints one page of posts. Usage: list [page] [limit].
func (a *App) List(ctx context.Context, args []string) error {
	page, limit := 1, a.config.PageSize
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n
	}
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid limit %q", args[1])
		}
		limit = n
	}

	list, err := a.api.ListPosts(ctx, page, limit)
	if err != nil {
		return err
	}

	if len(list.Data) == 0 {
		fmt.Fprintln(a.out, "No posts")
	}
	for _, p := range list.Data {
		fmt.Fprintf(a.out, "%s  %s  by %s  (%s)\n", p.ID, p.Title, formatAuthor(p.Author), p.CreatedAt.Format("2006-01-02 15:04"))
	}

	nav := []string{fmt.Sprintf("page %d/%d, %d posts", list.Page, list.Pages, list.Total)}
	if list.Pagination.Prev != nil {
		nav = append(nav, fmt.Sprintf("prev: list %d %d", list.Pagination.Prev.Page, list.Pagination.Prev.Limit))
	}
	if list.Pagination.Next != nil {
		nav = append(nav, fmt.Sprintf("next: list %d %d", list.Pagination.Next.Page, list.Pagination.Next.Limit))
	}
	fmt.Fprintln(a.out, strings.Join(nav, " | "))
	return nil
}

func requireID(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("usage: " + usage)
	}
	return args[0], nil
}

// Show prints a single post. Usage: show <id>.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := requireID(args, "show <id>")
	if err != nil {
		return err
	}
	p, err := a.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	a.printPost(p)
	return nil
}

func (a *App) printPost(p *client.Post) {
	fmt.Fprintf(a.out, "%s\nby %s on %s\n\n%s\n", p.Title, formatAuthor(p.Author), p.CreatedAt.Format("2006-01-02 15:04"), p.Content)
	if !p.UpdatedAt.Equal(p.CreatedAt) && !p.UpdatedAt.IsZero() {
		fmt.Fprintf(a.out, "(edited %s)\n", p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(a.out, "id: %s\n", p.ID)
}

// Post prompts for a title and a multi-line body and publishes it.
func (a *App) Post(ctx context.Context) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Enter content", a.out)
	if err != nil {
		return err
	}

	p, err := a.api.CreatePost(ctx, token, title, content)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Published %s\n", p.ID)
	return nil
}

// Edit prompts for a new title and body; leaving either empty keeps the
// current value. Usage: edit <id>.
func (a *App) Edit(ctx context.Context, args []string) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	id, err := requireID(args, "edit <id>")
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "New title (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "New content (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	var titlePtr, contentPtr *string
	if title != "" {
		titlePtr = &title
	}
	if content != "" {
		contentPtr = &content
	}
	if titlePtr == nil && contentPtr == nil {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	p, err := a.api.UpdatePost(ctx, token, id, titlePtr, contentPtr)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated")
	a.printPost(p)
	return nil
}

// Delete removes one of your posts after confirmation. Usage: delete <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	token, err := a.token()
	if err != nil {
		return err
	}
	id, err := requireID(args, "delete <id>")
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete post %s? (y/N)", id), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.api.DeletePost(ctx, token, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
