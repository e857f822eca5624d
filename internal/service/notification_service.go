package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/spec-kit/ticket-assistant/internal/config"
	"github.com/spec-kit/ticket-assistant/internal/domain"
	"github.com/spec-kit/ticket-assistant/internal/events"
)

// NotificationService posts a webhook message for every created ticket.
// Deliveries run detached from the request that created the ticket and
// their failures are only logged.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	client     *http.Client
	inFlight   *semaphore.Weighted
	wg         sync.WaitGroup
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.Timeout()},
		inFlight:   semaphore.NewWeighted(int64(maxInFlight)),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("ticket_created: unexpected payload %T", event.Payload)
	}
	n.Notify(payload.Ticket)
	return nil
}

// Notify announces ticket. It never blocks on the network and never fails.
func (n *NotificationService) Notify(ticket domain.Ticket) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		n.logger.Info(fmt.Sprintf("Notification: New ticket %s created for %s", ticket.ID, ticket.AssigneeOr("unassigned")))
		return
	}
	if !n.inFlight.TryAcquire(1) {
		n.logger.Warn("notification dropped; too many deliveries in flight", zap.String("ticket_id", ticket.ID))
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer n.inFlight.Release(1)

		ctx, cancel := context.WithTimeout(context.Background(), n.cfg.Timeout())
		defer cancel()
		if err := n.post(ctx, NotificationText(ticket)); err != nil {
			n.logger.Warn("Notification failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
	}()
}

// Wait blocks until in-flight deliveries finish or ctx is done.
func (n *NotificationService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *NotificationService) post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}

// NotificationText renders the webhook message for ticket.
func NotificationText(ticket domain.Ticket) string {
	due := "Not set"
	if ticket.DueDate != nil {
		due = ticket.DueDate.Format(time.RFC3339)
	}
	return fmt.Sprintf("New ticket created!\nID: %s\nSummary: %s\nAssignee: %s\nPriority: %s\nDue: %s",
		ticket.ID, ticket.Summary, ticket.AssigneeOr("Unassigned"), ticket.Priority, due)
}
