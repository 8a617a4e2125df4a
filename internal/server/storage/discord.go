package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/chanvault/chanvault/internal/common"
)

// DiscordStore stores objects as messages in one Discord channel, talking to
// the channel-messages REST endpoints directly. The message id is the handle.
type DiscordStore struct {
	apiBase   string
	botToken  string
	channelID string
	client    *http.Client
}

// NewDiscordStore builds a driver for one channel. apiBase is configurable so
// tests can point the driver at a local server.
func NewDiscordStore(apiBase, botToken, channelID string) *DiscordStore {
	return &DiscordStore{
		apiBase:   strings.TrimRight(apiBase, "/"),
		botToken:  botToken,
		channelID: channelID,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// message mirrors the subset of the Discord message resource we read.
type message struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Attachments []struct {
		URL string `json:"url"`
	} `json:"attachments"`
}

func (s *DiscordStore) messagesURL() string {
	return fmt.Sprintf("%s/channels/%s/messages", s.apiBase, s.channelID)
}

func (s *DiscordStore) messageURL(handle string) string {
	return s.messagesURL() + "/" + handle
}

func (s *DiscordStore) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bot "+s.botToken)
	return s.client.Do(req)
}

// decodeOrError consumes resp, mapping 404 to common.ErrNotFoundInStorage and
// any other non-2xx status to a wrapped error. When out is non-nil the
// response body is decoded into it.
func decodeOrError(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return common.ErrNotFoundInStorage
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("discord api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *DiscordStore) SendText(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.messagesURL(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return "", fmt.Errorf("discord send: %w", err)
	}

	var msg message
	if err := decodeOrError(resp, &msg); err != nil {
		return "", fmt.Errorf("discord send: %w", err)
	}
	return msg.ID, nil
}

func (s *DiscordStore) SendFile(ctx context.Context, filename, mimeType string, r io.Reader, size int64) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("files[0]", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("discord send file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.messagesURL(), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.do(req)
	if err != nil {
		return "", fmt.Errorf("discord send file: %w", err)
	}

	var msg message
	if err := decodeOrError(resp, &msg); err != nil {
		return "", fmt.Errorf("discord send file: %w", err)
	}
	return msg.ID, nil
}

func (s *DiscordStore) Fetch(ctx context.Context, handle string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.messageURL(handle), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("discord fetch: %w", err)
	}

	var msg message
	if err := decodeOrError(resp, &msg); err != nil {
		if errors.Is(err, common.ErrNotFoundInStorage) {
			return nil, err
		}
		return nil, fmt.Errorf("discord fetch: %w", err)
	}

	obj := &Object{Text: msg.Content}
	if len(msg.Attachments) > 0 {
		obj.AttachmentURL = msg.Attachments[0].URL
	}
	return obj, nil
}

func (s *DiscordStore) EditText(ctx context.Context, handle, text string) error {
	payload, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, s.messageURL(handle), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.do(req)
	if err != nil {
		return fmt.Errorf("discord edit: %w", err)
	}

	if err := decodeOrError(resp, nil); err != nil {
		if errors.Is(err, common.ErrNotFoundInStorage) {
			return err
		}
		return fmt.Errorf("discord edit: %w", err)
	}
	return nil
}

func (s *DiscordStore) Remove(ctx context.Context, handle string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.messageURL(handle), nil)
	if err != nil {
		return err
	}

	resp, err := s.do(req)
	if err != nil {
		return fmt.Errorf("discord remove: %w", err)
	}

	if err := decodeOrError(resp, nil); err != nil {
		if errors.Is(err, common.ErrNotFoundInStorage) {
			return err
		}
		return fmt.Errorf("discord remove: %w", err)
	}
	return nil
}
