package eventbus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rai/commerce-saga-go/modules/shared/events"
)

// ErrPublishFailed wraps every broker rejection or transport failure. Callers
// log it and move on: the local mutation that triggered the publish has
// already committed, so a lost event is a missed notification, not a lost
// write.
var ErrPublishFailed = errors.New("event publish failed")

// publishTimeout bounds the fire-and-forget publish call. There is no wait
// for subscriber acknowledgment beyond the broker accepting the envelope.
const publishTimeout = 5 * time.Second

// BrokerClient publishes envelopes to an external at-least-once broker over
// HTTP: POST {base}/publish/{topic} with the envelope as JSON body, any 2xx
// meaning accepted.
type BrokerClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewBrokerClient(baseURL string, logger *slog.Logger) *BrokerClient {
	return &BrokerClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: publishTimeout},
		logger:  logger,
	}
}

// Publish implements events.Publisher.
func (c *BrokerClient) Publish(ctx context.Context, topic string, env events.Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("%w: marshaling envelope: %v", ErrPublishFailed, err)
	}

	url := fmt.Sprintf("%s/publish/%s", c.baseURL, topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: building request: %v", ErrPublishFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: broker returned %d for topic %s", ErrPublishFailed, resp.StatusCode, topic)
	}

	c.logger.Debug("event published",
		slog.String("topic", topic),
		slog.String("event_type", env.Type.String()),
		slog.String("event_id", env.ID),
	)
	return nil
}

var _ events.Publisher = (*BrokerClient)(nil)
