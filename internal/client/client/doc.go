// Package client talks to the gophblog HTTP API.
//
// HTTPClient wraps net/http and the server's {success, data, error}
// envelope. Transport failures are reported as ErrUnavailable; error
// responses become *APIError, which matches ErrUnauthorized, ErrForbidden
// or ErrNotFound through errors.Is depending on the status code.
//
//	c := client.NewHTTPClient("http://127.0.0.1:5000", 10*time.Second)
//	s, err := c.Login(ctx, "alice@example.com", "secret")
//	if err != nil { ... }
//	p, err := c.CreatePost(ctx, s.Token, "Hello", "First post")
package client
