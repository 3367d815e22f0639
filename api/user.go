package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"roomify-client/models"
)

// Session is the token and profile pair a login response must carry.
type Session struct {
	Token string
	User  models.Profile
}

// DecodeSession pulls the token and user out of a login response. Both may
// sit at the top level or under data; a response missing either is
// malformed even when the server reported success.
func DecodeSession(res Result) (Session, error) {
	if err := res.Err(); err != nil {
		return Session{}, err
	}

	var out Session
	rawToken, ok := lookup(res.Body, "token")
	if !ok {
		rawToken, ok = lookup(res.Data, "token")
	}
	if !ok || json.Unmarshal(rawToken, &out.Token) != nil || strings.TrimSpace(out.Token) == "" {
		return Session{}, fmt.Errorf("%w: missing token", ErrMalformedResponse)
	}

	rawUser, ok := lookup(res.Body, "user")
	if !ok {
		rawUser, ok = lookup(res.Data, "user")
	}
	if !ok || json.Unmarshal(rawUser, &out.User) != nil {
		return Session{}, fmt.Errorf("%w: missing user", ErrMalformedResponse)
	}
	return out, nil
}

// DecodeProfile reads a profile from either {user: {...}} or a bare user.
func DecodeProfile(res Result) (models.Profile, error) {
	var p models.Profile
	if err := res.Err(); err != nil {
		return p, err
	}
	if err := res.DecodeAt("user", &p); err != nil {
		return p, err
	}
	if p.ID == 0 && p.Email == "" {
		return p, fmt.Errorf("%w: empty profile", ErrMalformedResponse)
	}
	return p, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) Result {
	res := c.do(ctx, call{method: http.MethodPost, path: "/register", body: req})
	if !res.Success && res.StatusCode != 0 && res.Message == "" {
		res.Message = fmt.Sprintf("Error %d: Registration failed", res.StatusCode)
	}
	return res
}

func (c *Client) Login(ctx context.Context, creds models.Credentials) Result {
	res := c.do(ctx, call{method: http.MethodPost, path: "/login", body: creds})
	if !res.Success && res.StatusCode != 0 && res.Message == "" {
		res.Message = fmt.Sprintf("Error %d: Login failed", res.StatusCode)
	}
	return res
}

func (c *Client) AdminLogin(ctx context.Context, creds models.Credentials) Result {
	return c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/admin/login",
		body:     creds,
		fallback: "Authentication failed",
	})
}

func (c *Client) Profile(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/profile", token, "Failed to fetch profile")
}

func (c *Client) UpdateProfile(ctx context.Context, token string, update models.ProfileUpdate) Result {
	if token == "" {
		return authRequired()
	}
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     "/profile/update",
		token:    token,
		body:     update,
		fallback: "Failed to update profile",
	})
}

// UploadImage posts r as multipart field "file". The returned image_url is
// server-relative; see AssetURL.
func (c *Client) UploadImage(ctx context.Context, token, filename string, r io.Reader) Result {
	if token == "" {
		return authRequired()
	}
	body, contentType, err := multipartFile("file", filename, r)
	if err != nil {
		return Failure(err.Error())
	}
	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        "/upload/image",
		token:       token,
		raw:         body,
		contentType: contentType,
		fallback:    "Failed to upload image",
	})
}

func (c *Client) UserBookings(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/user/bookings", token, "Failed to fetch bookings")
}

func (c *Client) Notifications(ctx context.Context, token string) Result {
	if token == "" {
		return authRequired()
	}
	return c.get(ctx, "/user/notifications", token, "Failed to fetch notifications")
}

func (c *Client) MarkNotificationRead(ctx context.Context, token string, id uint) Result {
	if token == "" {
		return authRequired()
	}
	return c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/user/notifications/%d/read", id),
		token:    token,
		fallback: "Failed to mark notification as read",
	})
}
