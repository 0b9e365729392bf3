// Package genie is a client for a Genie-style natural-language-to-SQL
// service. A question starts a conversation; the service answers with a
// message carrying attachments, each holding generated SQL, natural-language
// text, or both.
package genie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ErrNoSQL is returned when the service completed but none of its
// attachments carried a SQL query.
var ErrNoSQL = errors.New("genie: response contained no SQL query")

// QueryAttachment carries generated SQL.
type QueryAttachment struct {
	Query       string `json:"query"`
	Description string `json:"description,omitempty"`
}

// TextAttachment carries natural-language commentary.
type TextAttachment struct {
	Content string `json:"content"`
}

// Attachment is one structured sub-part of a Genie message. Either field
// may be absent; the JSON is decoded once here so callers never probe for
// field existence.
type Attachment struct {
	Query *QueryAttachment `json:"query,omitempty"`
	Text  *TextAttachment  `json:"text,omitempty"`
}

type genieMessage struct {
	ConversationID string       `json:"conversation_id"`
	MessageID      string       `json:"message_id"`
	Status         string       `json:"status"`
	Content        string       `json:"content,omitempty"`
	Attachments    []Attachment `json:"attachments,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// Client talks to the Genie REST API: start a conversation, then poll the
// message until it completes or the context expires.
type Client struct {
	baseURL      string
	apiToken     string
	spaceID      string
	httpClient   *http.Client
	pollInterval time.Duration
	log          *slog.Logger
}

func New(baseURL, apiToken, spaceID string, log *slog.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		spaceID:  spaceID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		pollInterval: 2 * time.Second,
		log:          log,
	}
}

// GenerateSQL asks a natural-language question and returns the generated
// SQL plus the service's natural-language answer. The answer is returned
// even when no SQL was found, so the caller can surface it as diagnostic
// context alongside ErrNoSQL.
func (c *Client) GenerateSQL(ctx context.Context, question string) (string, string, error) {
	c.log.Info("starting genie conversation", "space_id", c.spaceID, "question_len", len(question))

	msg, err := c.startConversation(ctx, question)
	if err != nil {
		return "", "", fmt.Errorf("failed to start conversation: %w", err)
	}

	final, err := c.waitForCompletion(ctx, msg.ConversationID, msg.MessageID)
	if err != nil {
		return "", "", err
	}

	answer := final.Content
	var sql string
	for _, attachment := range final.Attachments {
		if attachment.Text != nil && answer == "" {
			answer = attachment.Text.Content
		}
		if sql == "" && attachment.Query != nil && attachment.Query.Query != "" {
			sql = attachment.Query.Query
		}
	}

	if sql == "" {
		c.log.Error("no SQL in genie response", "attachments", len(final.Attachments), "answer_len", len(answer))
		return "", answer, ErrNoSQL
	}

	c.log.Info("genie returned SQL", "sql_len", len(sql), "answer_len", len(answer))
	return sql, answer, nil
}

func (c *Client) startConversation(ctx context.Context, question string) (*genieMessage, error) {
	url := fmt.Sprintf("%s/api/2.0/genie/spaces/%s/start-conversation", c.baseURL, c.spaceID)
	payload, err := json.Marshal(map[string]string{"content": question})
	if err != nil {
		return nil, err
	}

	var started struct {
		ConversationID string        `json:"conversation_id"`
		MessageID      string        `json:"message_id"`
		Message        *genieMessage `json:"message,omitempty"`
	}
	if err := c.doJSON(ctx, http.MethodPost, url, payload, &started); err != nil {
		return nil, err
	}

	// Some deployments nest the identifiers under "message".
	if started.ConversationID == "" && started.Message != nil {
		return started.Message, nil
	}
	return &genieMessage{
		ConversationID: started.ConversationID,
		MessageID:      started.MessageID,
	}, nil
}

func (c *Client) waitForCompletion(ctx context.Context, conversationID, messageID string) (*genieMessage, error) {
	url := fmt.Sprintf("%s/api/2.0/genie/spaces/%s/conversations/%s/messages/%s",
		c.baseURL, c.spaceID, conversationID, messageID)

	for {
		var msg genieMessage
		if err := c.doJSON(ctx, http.MethodGet, url, nil, &msg); err != nil {
			return nil, fmt.Errorf("failed to poll message: %w", err)
		}

		switch msg.Status {
		case "COMPLETED":
			return &msg, nil
		case "FAILED", "CANCELLED":
			return nil, fmt.Errorf("genie message %s: %s", msg.Status, msg.Error)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("genie timed out waiting for completion: %w", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("genie API returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return json.Unmarshal(respBody, out)
}
