package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/command-deck/command-deck-backend/app/models"
	"github.com/command-deck/command-deck-backend/pkg/utils"
)

// Client is a thin wrapper over the REST API. Ids are accepted as strings,
// matching the wire format, and validated as integers before any request
// goes out.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

func (c *Client) ListMissions(ctx context.Context, page, size int, sortBy, direction string) (models.MissionPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	q.Set("sortBy", sortBy)
	q.Set("direction", direction)

	var p models.MissionPage
	if err := c.do(ctx, http.MethodGet, "/api/missions", q, nil, &p); err != nil {
		return models.MissionPage{}, err
	}
	return p, nil
}

func (c *Client) GetMissionSummary(ctx context.Context) (models.MissionSummary, error) {
	var s models.MissionSummary
	err := c.do(ctx, http.MethodGet, "/api/missions/summary", nil, nil, &s)
	return s, err
}

func (c *Client) GetMission(ctx context.Context, id string) (models.Mission, error) {
	var m models.Mission
	if _, err := utils.ParseID(id); err != nil {
		return m, &ValidationError{Message: "invalid id"}
	}
	err := c.do(ctx, http.MethodGet, "/api/missions/"+id, nil, nil, &m)
	return m, err
}

func (c *Client) CreateMission(ctx context.Context, req models.CreateMissionRequest) (models.Mission, error) {
	var m models.Mission
	err := c.do(ctx, http.MethodPost, "/api/missions", nil, req, &m)
	return m, err
}

func (c *Client) UpdateMission(ctx context.Context, id string, req models.UpdateMissionRequest) (models.Mission, error) {
	var m models.Mission
	if _, err := utils.ParseID(id); err != nil {
		return m, &ValidationError{Message: "invalid id"}
	}
	err := c.do(ctx, http.MethodPut, "/api/missions/"+id, nil, req, &m)
	return m, err
}

func (c *Client) DeleteMission(ctx context.Context, id string) error {
	if _, err := utils.ParseID(id); err != nil {
		return &ValidationError{Message: "invalid id"}
	}
	return c.do(ctx, http.MethodDelete, "/api/missions/"+id, nil, nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, missionID string) ([]models.Task, error) {
	if _, err := utils.ParseID(missionID); err != nil {
		return nil, &ValidationError{Message: "invalid id"}
	}
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/api/missions/"+missionID+"/tasks", nil, nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, missionID string, req models.CreateTaskRequest) (models.Task, error) {
	var t models.Task
	if _, err := utils.ParseID(missionID); err != nil {
		return t, &ValidationError{Message: "invalid id"}
	}
	err := c.do(ctx, http.MethodPost, "/api/missions/"+missionID+"/tasks", nil, req, &t)
	return t, err
}

func (c *Client) UpdateTask(ctx context.Context, missionID, taskID string, req models.UpdateTaskRequest) (models.Task, error) {
	var t models.Task
	if _, err := utils.ParseID(missionID); err != nil {
		return t, &ValidationError{Message: "invalid id"}
	}
	if _, err := utils.ParseID(taskID); err != nil {
		return t, &ValidationError{Message: "invalid id"}
	}
	err := c.do(ctx, http.MethodPut, "/api/missions/"+missionID+"/tasks/"+taskID, nil, req, &t)
	return t, err
}

func (c *Client) DeleteTask(ctx context.Context, missionID, taskID string) error {
	if _, err := utils.ParseID(missionID); err != nil {
		return &ValidationError{Message: "invalid id"}
	}
	if _, err := utils.ParseID(taskID); err != nil {
		return &ValidationError{Message: "invalid id"}
	}
	return c.do(ctx, http.MethodDelete, "/api/missions/"+missionID+"/tasks/"+taskID, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServerError{StatusCode: resp.StatusCode, Message: "malformed response body"}
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = resp.Status
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{Message: body.Error}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: body.Error}
	default:
		return &ServerError{StatusCode: resp.StatusCode, Message: body.Error}
	}
}
