// Package gateway is the HTTP client for the blog backend: auth, blog CRUD,
// likes and comments. It only ever talks to the network; routing between
// seed and remote content happens in the blog package.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abhishekbhonde/new-portfolio/internal/models"
	"github.com/google/uuid"
)

// Client is an HTTP client for the blog backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
}

// New creates a new gateway client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthResult is the response of login and register.
type AuthResult struct {
	Token string
	User  models.Author
}

// ListQuery is the query of GET /blogs.
type ListQuery struct {
	Page   int
	Limit  int
	Sort   string // backend sort key, e.g. "-likes"
	Author string
}

// BlogList is one page of GET /blogs.
type BlogList struct {
	Posts   []models.Post
	Total   int
	HasMore bool
}

// --- Auth methods ---

// Register creates an account. No token required.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, "POST", "/auth/register", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

// Login exchanges credentials for a token. No token required.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.doJSON(ctx, "POST", "/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

// Me resolves the profile behind token.
func (c *Client) Me(ctx context.Context, token string) (models.Author, error) {
	var resp userDTO
	if err := c.doJSON(ctx, "GET", "/auth/me", token, nil, &resp); err != nil {
		return models.Author{}, err
	}
	return resp.toModel(), nil
}

// --- Blog methods ---

// ListBlogs fetches one page of remote posts.
func (c *Client) ListBlogs(ctx context.Context, token string, q ListQuery) (*BlogList, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Author != "" {
		params.Set("author", q.Author)
	}

	var resp blogListResponse
	if err := c.doJSON(ctx, "GET", "/blogs?"+params.Encode(), token, nil, &resp); err != nil {
		return nil, err
	}
	list := &BlogList{Total: resp.Total, HasMore: resp.HasMore, Posts: make([]models.Post, 0, len(resp.Blogs))}
	for _, b := range resp.Blogs {
		list.Posts = append(list.Posts, b.toModel())
	}
	return list, nil
}

// GetBlog fetches a single remote post.
func (c *Client) GetBlog(ctx context.Context, token, id string) (*models.Post, error) {
	var resp blogDTO
	if err := c.doJSON(ctx, "GET", "/blogs/"+url.PathEscape(id), token, nil, &resp); err != nil {
		return nil, err
	}
	p := resp.toModel()
	return &p, nil
}

// CreateBlog uploads a new post as multipart form data.
func (c *Client) CreateBlog(ctx context.Context, token string, draft models.PostDraft) (*models.Post, error) {
	return c.sendBlog(ctx, "POST", "/blogs", token, draft)
}

// UpdateBlog replaces an existing post.
func (c *Client) UpdateBlog(ctx context.Context, token, id string, draft models.PostDraft) (*models.Post, error) {
	return c.sendBlog(ctx, "PUT", "/blogs/"+url.PathEscape(id), token, draft)
}

func (c *Client) sendBlog(ctx context.Context, method, path, token string, draft models.PostDraft) (*models.Post, error) {
	body, contentType, err := encodeDraft(draft)
	if err != nil {
		return nil, err
	}
	var resp blogDTO
	if err := c.do(ctx, method, path, token, body, contentType, &resp); err != nil {
		return nil, err
	}
	p := resp.toModel()
	return &p, nil
}

// DeleteBlog removes a post.
func (c *Client) DeleteBlog(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, "DELETE", "/blogs/"+url.PathEscape(id), token, nil, nil)
}

// LikeBlog toggles the viewer's like; the backend owns the toggle.
func (c *Client) LikeBlog(ctx context.Context, token, id string) (models.LikeState, error) {
	var resp likeResponse
	if err := c.doJSON(ctx, "POST", "/blogs/"+url.PathEscape(id)+"/like", token, nil, &resp); err != nil {
		return models.LikeState{}, err
	}
	return resp.toModel(), nil
}

// --- Comment methods ---

// ListComments fetches the comments of a remote post.
func (c *Client) ListComments(ctx context.Context, token, postID string) ([]models.Comment, error) {
	var resp []commentDTO
	if err := c.doJSON(ctx, "GET", "/comments/blog/"+url.PathEscape(postID), token, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]models.Comment, 0, len(resp))
	for _, cm := range resp {
		out = append(out, cm.toModel(postID))
	}
	return out, nil
}

// AddComment posts a comment on a remote post.
func (c *Client) AddComment(ctx context.Context, token, postID, content string, author models.Author) (*models.Comment, error) {
	body := map[string]any{"content": content, "author": fromAuthor(author)}
	var resp commentDTO
	if err := c.doJSON(ctx, "POST", "/comments/blog/"+url.PathEscape(postID), token, body, &resp); err != nil {
		return nil, err
	}
	cm := resp.toModel(postID)
	return &cm, nil
}

// UpdateComment edits a remote comment.
func (c *Client) UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error) {
	body := map[string]string{"content": content}
	var resp commentDTO
	if err := c.doJSON(ctx, "PUT", "/comments/"+url.PathEscape(commentID), token, body, &resp); err != nil {
		return nil, err
	}
	cm := resp.toModel("")
	return &cm, nil
}

// DeleteComment removes a remote comment.
func (c *Client) DeleteComment(ctx context.Context, token, commentID string) error {
	return c.doJSON(ctx, "DELETE", "/comments/"+url.PathEscape(commentID), token, nil, nil)
}

// LikeComment toggles the viewer's like on a remote comment.
func (c *Client) LikeComment(ctx context.Context, token, commentID string) (models.LikeState, error) {
	var resp likeResponse
	if err := c.doJSON(ctx, "POST", "/comments/"+url.PathEscape(commentID)+"/like", token, nil, &resp); err != nil {
		return models.LikeState{}, err
	}
	return resp.toModel(), nil
}

// --- HTTP helpers ---

// errorBody is the error payload of the backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) error {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, reader, contentType, result)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger().With("method", method, "path", path, "request_id", requestID)
	start := time.Now()

	resp, err := c.HTTP.Do(req)
	if err != nil {
		log.Debug("gateway: request failed", "err", err)
		return &models.APIError{Message: "backend unreachable: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.APIError{Status: resp.StatusCode, Message: "read response: " + err.Error(), Err: err}
	}
	log.Debug("gateway: response", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, respBody, token != "")
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			log.Debug("gateway: undecodable response", "err", err)
			return &models.APIError{
				Status:  resp.StatusCode,
				Message: "unexpected response from backend: " + err.Error(),
				Err:     err,
			}
		}
	}
	return nil
}

// statusError maps a failed response onto the error taxonomy. A 401 only
// means a rejected session when a bearer token was sent; on login and
// register it carries the backend's message about the credentials.
func statusError(status int, body []byte, bearer bool) error {
	var eb errorBody
	msg := ""
	if json.Unmarshal(body, &eb) == nil {
		msg = eb.Message
		if msg == "" {
			msg = eb.Error
		}
	}

	switch {
	case status == http.StatusUnauthorized && bearer:
		if msg == "" {
			return models.ErrUnauthenticated
		}
		return fmt.Errorf("%w: %s", models.ErrUnauthenticated, msg)
	case status == http.StatusNotFound:
		if msg == "" {
			return models.ErrNotFound
		}
		return fmt.Errorf("%w: %s", models.ErrNotFound, msg)
	}

	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &models.APIError{Status: status, Message: msg}
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// IsUnreachable reports whether err means the backend never answered.
func IsUnreachable(err error) bool {
	var apiErr *models.APIError
	return errors.As(err, &apiErr) && apiErr.Status == 0
}
