// Package directory is the typed HTTP client for the remote course
// directory, the source of truth for every durable entity. It normalises
// all failures into the shared taxonomy: transport errors, non-success
// statuses and undecodable bodies are each tagged so callers can treat
// them uniformly as recoverable load failures.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/quitecodedevelopers/elearn-go/internal/models"
	"github.com/quitecodedevelopers/elearn-go/internal/session"
	apperr "github.com/quitecodedevelopers/elearn-go/pkg/errors"
)

// Config groups client construction parameters.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Session    session.Provider
	Logger     *zap.Logger
	Metrics    *Metrics
	HTTPClient *http.Client
}

// Client talks to the remote course directory. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	session session.Provider
	policy  *bluemonday.Policy
	metrics *Metrics
	logger  *zap.Logger
}

// New constructs a Client. Session is required for authenticated endpoints;
// everything else has defaults.
func New(cfg Config) *Client {
	httpc := cfg.HTTPClient
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: trimSlash(cfg.BaseURL),
		httpc:   httpc,
		session: cfg.Session,
		// Course, lecture and assignment descriptions plus grading feedback
		// are tutor-authored rich text; scrub them before any view sees them.
		policy:  bluemonday.UGCPolicy(),
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// Courses lists the full catalog, optionally filtered by title or category.
// No authentication required.
func (c *Client) Courses(ctx context.Context, filter models.CourseFilter) ([]models.Course, error) {
	query := url.Values{}
	if filter.Title != "" {
		query.Set("title", filter.Title)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "courses", "/courses", query, nil, &courses, false); err != nil {
		return nil, err
	}
	for i := range courses {
		courses[i].Description = c.policy.Sanitize(courses[i].Description)
	}
	return courses, nil
}

// Course fetches a single course.
func (c *Client) Course(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodGet, "course", "/courses/"+url.PathEscape(id), nil, nil, &course, false); err != nil {
		return nil, err
	}
	course.Description = c.policy.Sanitize(course.Description)
	return &course, nil
}

// Lectures lists a course's lectures. Requires a bearer token.
func (c *Client) Lectures(ctx context.Context, courseID string) ([]models.Lecture, error) {
	var lectures []models.Lecture
	path := "/courses/" + url.PathEscape(courseID) + "/lectures"
	if err := c.do(ctx, http.MethodGet, "lectures", path, nil, nil, &lectures, true); err != nil {
		return nil, err
	}
	for i := range lectures {
		lectures[i].Description = c.policy.Sanitize(lectures[i].Description)
	}
	return lectures, nil
}

// Lecture fetches a single lecture.
func (c *Client) Lecture(ctx context.Context, id string) (*models.Lecture, error) {
	var lecture models.Lecture
	if err := c.do(ctx, http.MethodGet, "lecture", "/lectures/"+url.PathEscape(id), nil, nil, &lecture, false); err != nil {
		return nil, err
	}
	lecture.Description = c.policy.Sanitize(lecture.Description)
	return &lecture, nil
}

// Assignments lists a course's assignments.
func (c *Client) Assignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	path := "/courses/" + url.PathEscape(courseID) + "/assignments"
	if err := c.do(ctx, http.MethodGet, "assignments", path, nil, nil, &assignments, true); err != nil {
		return nil, err
	}
	for i := range assignments {
		assignments[i].Description = c.policy.Sanitize(assignments[i].Description)
	}
	return assignments, nil
}

// Assignment fetches a single assignment.
func (c *Client) Assignment(ctx context.Context, id string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := c.do(ctx, http.MethodGet, "assignment", "/assignments/"+url.PathEscape(id), nil, nil, &assignment, true); err != nil {
		return nil, err
	}
	assignment.Description = c.policy.Sanitize(assignment.Description)
	return &assignment, nil
}

// Me fetches the current user's profile.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "me", "/users/me", nil, nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

// EnrolledCourseIDs lists the course identifiers the current user is
// enrolled in.
func (c *Client) EnrolledCourseIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodGet, "enrolled", "/users/me/enrolled", nil, nil, &ids, true); err != nil {
		return nil, err
	}
	return ids, nil
}

// Progress fetches the current user's course-id to percent mapping.
func (c *Client) Progress(ctx context.Context) (models.ProgressMap, error) {
	var progress models.ProgressMap
	if err := c.do(ctx, http.MethodGet, "progress", "/users/me/progress", nil, nil, &progress, true); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = models.ProgressMap{}
	}
	return progress, nil
}

// MySubmissions lists every submission by the current user, ordered by
// submission time ascending. The ordering makes map construction over the
// result deterministic: if the store ever holds more than one submission
// for an assignment, the most recent wins.
func (c *Client) MySubmissions(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := c.do(ctx, http.MethodGet, "submissions", "/users/me/submissions", nil, nil, &submissions, true); err != nil {
		return nil, err
	}
	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.Before(submissions[j].SubmittedAt)
	})
	for i := range submissions {
		submissions[i].Feedback = c.policy.Sanitize(submissions[i].Feedback)
	}
	return submissions, nil
}

// UpdateProgress stores a new completion percentage for a course.
func (c *Client) UpdateProgress(ctx context.Context, courseID string, percent float64) error {
	path := "/users/me/courses/" + url.PathEscape(courseID) + "/progress"
	body := map[string]float64{"percent": percent}
	return c.do(ctx, http.MethodPost, "update_progress", path, nil, body, nil, true)
}

// Enroll enrolls the current user in a course.
func (c *Client) Enroll(ctx context.Context, courseID string) error {
	path := "/courses/" + url.PathEscape(courseID) + "/enroll"
	return c.do(ctx, http.MethodPost, "enroll", path, nil, struct{}{}, nil, true)
}

// SubmitAssignment submits a deliverable URL for an assignment.
func (c *Client) SubmitAssignment(ctx context.Context, assignmentID, submissionURL string) (*models.Submission, error) {
	path := "/assignments/" + url.PathEscape(assignmentID) + "/submit"
	body := map[string]string{"submissionUrl": submissionURL}
	var submission models.Submission
	if err := c.do(ctx, http.MethodPost, "submit", path, nil, body, &submission, true); err != nil {
		return nil, err
	}
	return &submission, nil
}

// Login exchanges credentials for a bearer token. Token issuance itself is
// entirely server-side; the client only carries the opaque result.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "login", "/auth/login", nil, body, &resp, false); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", apperr.Clone(apperr.ErrDecode, "login response carried no token")
	}
	return resp.Token, nil
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, query url.Values, body, out any, authed bool) error {
	var token string
	if authed {
		var present bool
		if c.session != nil {
			token, present = c.session.Token()
		}
		// Anonymous callers never reach the wire for authenticated
		// endpoints; the server would reject the request anyway.
		if !present {
			return apperr.Clone(apperr.ErrUnauthorized, "no session token for "+endpoint)
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, "encode request body")
		}
		payload = bytes.NewReader(raw)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.metrics.observe(method, endpoint, "transport", time.Since(start))
		c.logger.Warn("directory request failed",
			zap.String("endpoint", endpoint), zap.Error(err))
		return apperr.Wrap(err, apperr.ErrTransport.Code, 0, apperr.ErrTransport.Message)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.observe(method, endpoint, "status", time.Since(start))
		return apperr.WithStatus(
			apperr.Clone(apperr.ErrRemoteStatus, fmt.Sprintf("directory returned %d for %s", resp.StatusCode, endpoint)),
			resp.StatusCode,
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.observe(method, endpoint, "decode", time.Since(start))
			return apperr.Wrap(err, apperr.ErrDecode.Code, 0, apperr.ErrDecode.Message)
		}
	}

	c.metrics.observe(method, endpoint, "success", time.Since(start))
	return nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
