// Package api is the client for the upstream mock REST service
// (DummyJSON-compatible). The service is a collaborator, not owned: it
// provides login plus the users/todos/posts collections that stand in for
// candidates, schedules and feedback.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"imsdash/internal/domain"
)

// Client talks to the upstream API. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for baseURL. A nil logger is replaced with a
// no-op logger.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// LoginResponse is the payload of POST /auth/login. Token may be absent in
// some environments; EnsureToken covers that case.
type LoginResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Image     string `json:"image"`
	Token     string `json:"token"`
}

// EnsureToken returns the server token, or a synthesized local placeholder
// when the response carried none.
func (r LoginResponse) EnsureToken() string {
	if r.Token != "" {
		return r.Token
	}
	return "client_" + uuid.NewString()
}

// User converts the login payload to the session's user summary.
func (r LoginResponse) User() domain.UserSummary {
	return domain.UserSummary{
		ID:        r.ID,
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Image:     r.Image,
	}
}

// Login authenticates against POST /auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResponse
	if err := c.post(ctx, "/auth/login", body, &res); err != nil {
		return LoginResponse{}, fmt.Errorf("login: %w", err)
	}
	return res, nil
}

// upstream user record; company is flattened into the candidate's department.
type userRecord struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	Company   struct {
		Department string `json:"department"`
	} `json:"company"`
}

func (u userRecord) candidate() domain.CandidateRecord {
	rec := domain.CandidateRecord{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		Email:      u.Email,
		Department: u.Company.Department,
		Role:       u.Role,
	}
	if status, err := domain.ParseInterviewStatus(u.Status); err == nil {
		rec.Status = status
	}
	return rec
}

// ListCandidates fetches the whole candidate collection from GET /users.
func (c *Client) ListCandidates(ctx context.Context) ([]domain.CandidateRecord, error) {
	var res struct {
		Users []userRecord `json:"users"`
	}
	if err := c.get(ctx, "/users", nil, &res); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	out := make([]domain.CandidateRecord, 0, len(res.Users))
	for _, u := range res.Users {
		out = append(out, u.candidate())
	}
	return out, nil
}

// Candidate fetches a single candidate profile from GET /users/{id}.
func (c *Client) Candidate(ctx context.Context, id int) (domain.CandidateRecord, error) {
	var res userRecord
	if err := c.get(ctx, "/users/"+strconv.Itoa(id), nil, &res); err != nil {
		return domain.CandidateRecord{}, fmt.Errorf("candidate %d: %w", id, err)
	}
	return res.candidate(), nil
}

// Schedule fetches a candidate's schedule items from GET /todos?userId={id}.
func (c *Client) Schedule(ctx context.Context, userID int) ([]domain.ScheduleItem, error) {
	var res struct {
		Todos []domain.ScheduleItem `json:"todos"`
	}
	q := url.Values{"userId": {strconv.Itoa(userID)}}
	if err := c.get(ctx, "/todos", q, &res); err != nil {
		return nil, fmt.Errorf("schedule for %d: %w", userID, err)
	}
	return res.Todos, nil
}

// Feedback fetches recorded feedback from GET /posts?userId={id}.
func (c *Client) Feedback(ctx context.Context, userID int) ([]domain.FeedbackPost, error) {
	var res struct {
		Posts []domain.FeedbackPost `json:"posts"`
	}
	q := url.Values{"userId": {strconv.Itoa(userID)}}
	if err := c.get(ctx, "/posts", q, &res); err != nil {
		return nil, fmt.Errorf("feedback for %d: %w", userID, err)
	}
	return res.Posts, nil
}

// CandidateDetail fans out the three detail requests in parallel and returns
// the bundle, or the first error.
func (c *Client) CandidateDetail(ctx context.Context, id int) (domain.CandidateDetail, error) {
	var detail domain.CandidateDetail
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := c.Candidate(ctx, id)
		if err == nil {
			detail.Profile = profile
		}
		return err
	})
	g.Go(func() error {
		schedule, err := c.Schedule(ctx, id)
		if err == nil {
			detail.Schedule = schedule
		}
		return err
	})
	g.Go(func() error {
		feedback, err := c.Feedback(ctx, id)
		if err == nil {
			detail.Feedback = feedback
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.CandidateDetail{}, err
	}
	return detail, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
