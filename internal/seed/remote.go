package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"tracker-backend/internal/models"
	"tracker-backend/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
)

// DefaultAPIURL is used when neither --api-url nor SEED_API_URL is set.
const DefaultAPIURL = "http://localhost:5000/api"

// ProbeName is the project name the probe writes and reads back.
const ProbeName = "Test Client Lee Rule"

// ErrNoTeam is returned when the server lists no members to assign to.
var ErrNoTeam = errors.New("no team members found")

// Client drives a running tracker server over its HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	// pick chooses an index in [0, n) for task assignment.
	pick func(n int) int
}

// NewClient 创建 API 客户端
func NewClient(baseURL string, logger *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     logger.GetLogger("seed-client"),
		pick:    rand.Intn,
	}
}

// Seed invites the demo members and creates every demo task assigned to a
// random member of the resulting team. Individual failures are logged and
// skipped.
func (c *Client) Seed(ctx context.Context) error {
	for _, m := range DemoMembers {
		body := map[string]string{"username": m.Username, "email": m.Email, "org": m.Org}
		if err := c.do(ctx, http.MethodPost, "/invite", body, nil); err != nil {
			c.log.Error().Err(err).Str("username", m.Username).Msg("Failed to add team member")
			continue
		}
		c.log.Info().Str("username", m.Username).Msg("Added team member")
	}

	var team []models.TeamMember
	if err := c.do(ctx, http.MethodGet, "/team", nil, &team); err != nil {
		return fmt.Errorf("listing team: %w", err)
	}
	if len(team) == 0 {
		return ErrNoTeam
	}

	for _, d := range DemoTasks {
		assignee := team[c.pick(len(team))].Username
		task := d.Task()
		task.AssignedTo = assignee
		if err := c.do(ctx, http.MethodPost, "/phases", task, nil); err != nil {
			c.log.Error().Err(err).Str("goal", d.Goal).Msg("Failed to add task")
			continue
		}
		c.log.Info().Str("goal", d.Goal).Str("assigned_to", assignee).Msg("Added task")
	}
	return nil
}

// Probe saves name as the project name and checks it reads back unchanged.
func (c *Client) Probe(ctx context.Context, name string) error {
	if err := c.do(ctx, http.MethodPost, "/project", map[string]string{"name": name}, nil); err != nil {
		return fmt.Errorf("saving project name: %w", err)
	}

	var project struct {
		Name string `json:"name"`
	}
	if err := c.do(ctx, http.MethodGet, "/project", nil, &project); err != nil {
		return fmt.Errorf("loading project name: %w", err)
	}
	if project.Name != name {
		return fmt.Errorf("project name did not persist: got %q, want %q", project.Name, name)
	}

	c.log.Info().Str("name", name).Msg("Project name persisted")
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := sonic.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
