// Package notify sends outbound order notifications. Dispatch is
// fire-and-forget: a failed send is logged and dropped, it never blocks or
// fails the order flow that triggered it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	queueSize   = 64
	sendTimeout = 10 * time.Second
	maxRetries  = 3
	retryDelay  = 2 * time.Second
)

// OrderSummary is the notification payload for a newly placed order.
type OrderSummary struct {
	OrderNumber   string
	OrderType     string
	CustomerName  string
	CustomerPhone string
	TotalAmount   decimal.Decimal
	Lines         []OrderLine
}

// OrderLine is one item on the order summary.
type OrderLine struct {
	Title      string
	Quantity   int32
	Variations []string
}

type gatewayRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WhatsAppNotifier posts order summaries to a WhatsApp gateway. A worker
// goroutine drains a buffered queue so callers never wait on the gateway.
type WhatsAppNotifier struct {
	gatewayURL string
	phone      string
	client     *http.Client
	queue      chan OrderSummary
	done       chan struct{}
}

// NewWhatsAppNotifier creates a notifier targeting the given gateway URL.
// The kitchen phone receives the new-order messages.
func NewWhatsAppNotifier(gatewayURL, phone string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		gatewayURL: gatewayURL,
		phone:      phone,
		client:     &http.Client{Timeout: sendTimeout},
		queue:      make(chan OrderSummary, queueSize),
		done:       make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled. Call in a goroutine.
func (n *WhatsAppNotifier) Run(ctx context.Context) {
	defer close(n.done)
	for {
		select {
		case <-ctx.Done():
			return
		case summary := <-n.queue:
			n.send(ctx, summary)
		}
	}
}

// Wait blocks until the worker has stopped.
func (n *WhatsAppNotifier) Wait() {
	<-n.done
}

// NotifyNewOrder enqueues a new-order message. Drops the message when the
// queue is full rather than blocking the checkout path.
func (n *WhatsAppNotifier) NotifyNewOrder(summary OrderSummary) {
	select {
	case n.queue <- summary:
	default:
		log.Printf("ERROR: notification queue full, dropping order %s", summary.OrderNumber)
	}
}

func (n *WhatsAppNotifier) send(ctx context.Context, summary OrderSummary) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := n.post(ctx, summary); err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryDelay):
			}
			continue
		}
		return
	}
	log.Printf("ERROR: whatsapp notification for order %s failed after %d attempts: %v",
		summary.OrderNumber, maxRetries, lastErr)
}

func (n *WhatsAppNotifier) post(ctx context.Context, summary OrderSummary) error {
	body, err := json.Marshal(gatewayRequest{
		Phone:   n.phone,
		Message: FormatOrderMessage(summary),
	})
	if err != nil {
		return fmt.Errorf("marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// FormatOrderMessage renders the plain-text message sent to the kitchen.
func FormatOrderMessage(summary OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s (%s)\n", summary.OrderNumber, summary.OrderType)
	fmt.Fprintf(&b, "Customer: %s", summary.CustomerName)
	if summary.CustomerPhone != "" {
		fmt.Fprintf(&b, " (%s)", summary.CustomerPhone)
	}
	b.WriteString("\n")
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "- %dx %s", line.Quantity, line.Title)
		if len(line.Variations) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(line.Variations, ", "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total: %s", summary.TotalAmount.StringFixed(2))
	return b.String()
}
