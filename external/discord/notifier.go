package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ViniciusLBarbosa/ffxivstore/internal/model"
)

// Notifier posts a summary of each new order to a Discord webhook so the
// fulfilment team can reach the buyer on their handle.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

func NewNotifier() (*Notifier, error) {
	url := os.Getenv("DISCORD_WEBHOOK_URL")
	if url == "" {
		return nil, errors.New("DISCORD_WEBHOOK_URL not set")
	}
	return &Notifier{
		webhookURL: url,
		client:     &http.Client{Timeout: 5 * time.Second},
	}, nil
}

type webhookMessage struct {
	Content string `json:"content"`
}

func formatOrder(o *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", o.OrderID)
	fmt.Fprintf(&b, "Buyer: %s (discord: %s)\n", o.UserEmail, o.Discord)
	for _, it := range o.Items {
		switch it.Category {
		case model.CategoryLeveling:
			fmt.Fprintf(&b, "- %s [%s] levels %d-%d\n", it.Name, it.Job, it.StartLevel, it.EndLevel)
		case model.CategoryGil:
			fmt.Fprintf(&b, "- %s: %d gil\n", it.Name, it.TotalGil)
		default:
			fmt.Fprintf(&b, "- %s x%d\n", it.Name, it.Quantity)
		}
	}
	fmt.Fprintf(&b, "Total: %s %s via %s", o.Total, o.Currency, o.PaymentMethod)
	return b.String()
}

func (n *Notifier) NotifyOrder(ctx context.Context, o *model.Order) error {
	body, _ := json.Marshal(webhookMessage{Content: formatOrder(o)})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		buf.ReadFrom(resp.Body)
		return errors.New("failed to post order notification: " + buf.String())
	}
	return nil
}
