package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const videoRequestTimeout = 15 * time.Second

// VideoRoom is a provider room an interview is held in
type VideoRoom struct {
	Name string
	URL  string
}

// RoomProvider creates video rooms for interviews
type RoomProvider interface {
	CreateRoom(ctx context.Context, name string, expiresAt time.Time) (*VideoRoom, error)
}

// VideoRoomClient talks to a Daily-style REST API: POST {base}/rooms
type VideoRoomClient struct {
	client *resty.Client
}

func NewVideoRoomClient(apiKey, baseURL string) *VideoRoomClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(videoRequestTimeout)
	return &VideoRoomClient{client: client}
}

func (c *VideoRoomClient) CreateRoom(ctx context.Context, name string, expiresAt time.Time) (*VideoRoom, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"name": name,
			"properties": map[string]interface{}{
				"exp": expiresAt.Unix(),
			},
		}).
		Post("/rooms")
	if err != nil {
		slog.Error("Video room request failed", "error", err, "room", name)
		return nil, fmt.Errorf("%w: %v", ErrVideoProvider, err)
	}
	if resp.IsError() {
		slog.Error("Video room provider rejected request", "status", resp.StatusCode(), "room", name, "body", truncate(resp.String(), 500))
		return nil, fmt.Errorf("%w: status %d", ErrVideoProvider, resp.StatusCode())
	}

	body := resp.String()
	url := gjson.Get(body, "url").String()
	if url == "" {
		return nil, fmt.Errorf("%w: response has no room url", ErrVideoProvider)
	}
	room := &VideoRoom{Name: gjson.Get(body, "name").String(), URL: url}
	if room.Name == "" {
		room.Name = name
	}

	slog.Info("Video room created", "room", room.Name)
	return room, nil
}
