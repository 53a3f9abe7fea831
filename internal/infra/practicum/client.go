package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Pr1ority/homework-bot/internal/domain/homework"

	"github.com/sirupsen/logrus"
)

const (
	requestTimeout = 30 * time.Second

	// maxBodyBytes caps how much of a response body is read; real
	// payloads from the API are a few kilobytes at most.
	maxBodyBytes = 1 << 20

	// maxErrorBody caps how much of a response body is echoed into an
	// error message so a misbehaving endpoint cannot flood the chat.
	maxErrorBody = 200
)

// Client implements homework.Client over the Practicum HTTP API.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        *logrus.Entry
}

// NewClient returns a Client that queries endpoint authorizing with token.
func NewClient(endpoint, token string, baseLogger *logrus.Entry) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        baseLogger,
	}
}

// HomeworkStatuses fetches the records whose review status changed at or
// after fromDate, together with the cursor for the next window.
func (c *Client) HomeworkStatuses(ctx context.Context, fromDate int64) (*homework.StatusPage, error) {
	reqLogger := c.log.WithFields(logrus.Fields{
		"endpoint":  c.endpoint,
		"from_date": fromDate,
	})
	reqLogger.Debug("Requesting homework statuses")

	body, err := c.fetch(ctx, fromDate)
	if err != nil {
		return nil, err
	}

	page, err := c.decodeStatusPage(body, fromDate)
	if err != nil {
		return nil, err
	}

	reqLogger.WithFields(logrus.Fields{
		"homeworks_count": len(page.Homeworks),
		"current_date":    page.CurrentDate,
	}).Debug("Homework statuses received")
	return page, nil
}

func (c *Client) fetch(ctx context.Context, fromDate int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &RequestError{URL: c.endpoint, FromDate: fromDate, Err: err}
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	query := req.URL.Query()
	query.Set("from_date", strconv.FormatInt(fromDate, 10))
	req.URL.RawQuery = query.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RequestError{URL: c.endpoint, FromDate: fromDate, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &RequestError{URL: c.endpoint, FromDate: fromDate, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			URL:        c.endpoint,
			FromDate:   fromDate,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body)),
		}
	}
	return body, nil
}

// decodeStatusPage checks the response body against the documented contract
// before handing records to the caller.
func (c *Client) decodeStatusPage(body []byte, fromDate int64) (*homework.StatusPage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &homework.TypeMismatchError{Expected: "object", Actual: typeErr.Value}
		}
		return nil, fmt.Errorf("decode API response: %w", err)
	}
	if envelope == nil {
		return nil, &homework.TypeMismatchError{Expected: "object", Actual: "null"}
	}

	// A success status can still carry a refusal; those payloads hold
	// error or code fields instead of homework data.
	for _, field := range []string{"error", "code"} {
		if payload, ok := envelope[field]; ok {
			return nil, &APIError{
				URL:      c.endpoint,
				FromDate: fromDate,
				Field:    field,
				Payload:  truncate(string(payload)),
			}
		}
	}

	var missing []string
	rawHomeworks, ok := envelope["homeworks"]
	if !ok {
		missing = append(missing, "homeworks")
	}
	rawDate, ok := envelope["current_date"]
	if !ok {
		missing = append(missing, "current_date")
	}
	if len(missing) > 0 {
		return nil, &homework.MissingKeysError{Keys: missing}
	}

	if name := jsonTypeName(rawHomeworks); name != "array" {
		return nil, &homework.TypeMismatchError{Key: "homeworks", Expected: "array", Actual: name}
	}
	var records []homework.Record
	if err := json.Unmarshal(rawHomeworks, &records); err != nil {
		return nil, fmt.Errorf("decode homeworks list: %w", err)
	}

	if name := jsonTypeName(rawDate); name != "number" {
		return nil, &homework.TypeMismatchError{Key: "current_date", Expected: "number", Actual: name}
	}
	var currentDate int64
	if err := json.Unmarshal(rawDate, &currentDate); err != nil {
		return nil, fmt.Errorf("decode current_date: %w", err)
	}

	return &homework.StatusPage{Homeworks: records, CurrentDate: currentDate}, nil
}

// jsonTypeName names the JSON type of a raw value for error reporting.
func jsonTypeName(raw json.RawMessage) string {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return "object"
		case '[':
			return "array"
		case '"':
			return "string"
		case 't', 'f':
			return "bool"
		case 'n':
			return "null"
		default:
			return "number"
		}
	}
	return "empty"
}

// truncate caps s for inclusion in error text.
func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
