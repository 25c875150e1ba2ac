package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// ErrorKind classifies API failures so the UI can decide how to surface them.
type ErrorKind int

const (
	KindFetch ErrorKind = iota
	KindCreate
	KindDelete
	KindAuth
)

func (k ErrorKind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindCreate:
		return "create"
	case KindDelete:
		return "delete"
	case KindAuth:
		return "auth"
	default:
		return "unknown"
	}
}

// APIError is a typed failure from the backend. Non-2xx responses are always
// translated into an APIError so raw transport errors never reach rendering
// code.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s failed: %s (HTTP %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s failed: %s", e.Kind, e.Message)
}

// MeetingSource is the subset of the backend the calendar view depends on.
// Tests substitute fakes for it.
type MeetingSource interface {
	ListMeetings(ctx context.Context, start, end time.Time) ([]RawMeeting, error)
	DeleteMeeting(ctx context.Context, id string) error
}

// RoomSource provides room and device lookup for the meeting-creation form.
type RoomSource interface {
	ListAvailableRooms(ctx context.Context) ([]Room, error)
	ListDevicesForRoom(ctx context.Context, roomID string) ([]Device, error)
}

// Client talks to the iMeet backend. Credentials are carried by the session
// cookie captured in the jar at login time.
type Client struct {
	BaseURL string
	http    *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		BaseURL: baseURL,
		http: &http.Client{
			Jar:     jar,
			Timeout: 15 * time.Second,
		},
	}, nil
}

// envelope is the standard response wrapper: {"data": ..., "message": ...}.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, kind ErrorKind, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Kind: kind, Message: err.Error()}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &APIError{Kind: kind, Message: err.Error()}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Kind: kind, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: kind, Status: resp.StatusCode, Message: err.Error()}
	}

	var env envelope
	if len(raw) > 0 {
		// Tolerate non-JSON error bodies; the status code decides below.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Kind: kind, Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if len(env.Data) == 0 {
			return &APIError{Kind: kind, Status: resp.StatusCode, Message: "empty response data"}
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Kind: kind, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}

	return nil
}

// ListMeetings returns raw meeting records overlapping [start, end].
func (c *Client) ListMeetings(ctx context.Context, start, end time.Time) ([]RawMeeting, error) {
	query := url.Values{}
	query.Set("startTime", start.Format(time.RFC3339))
	query.Set("endTime", end.Format(time.RFC3339))

	var meetings []RawMeeting
	if err := c.do(ctx, KindFetch, http.MethodGet, "/api/v1/meetings", query, nil, &meetings); err != nil {
		return nil, err
	}
	return meetings, nil
}

// CreateMeeting books a new meeting and returns the created record.
func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) (RawMeeting, error) {
	var created RawMeeting
	if err := c.do(ctx, KindCreate, http.MethodPost, "/api/v1/meetings", nil, req, &created); err != nil {
		return RawMeeting{}, err
	}
	return created, nil
}

// DeleteMeeting removes a meeting by ID.
func (c *Client) DeleteMeeting(ctx context.Context, id string) error {
	return c.do(ctx, KindDelete, http.MethodDelete, "/api/v1/meetings/"+url.PathEscape(id), nil, nil, nil)
}

// ListAvailableRooms returns the rooms currently open for booking.
func (c *Client) ListAvailableRooms(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := c.do(ctx, KindFetch, http.MethodGet, "/api/v1/rooms/available", nil, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// ListDevicesForRoom returns the devices installed in a room.
func (c *Client) ListDevicesForRoom(ctx context.Context, roomID string) ([]Device, error) {
	var devices []Device
	if err := c.do(ctx, KindFetch, http.MethodGet, "/api/v1/rooms/"+url.PathEscape(roomID)+"/devices", nil, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}
