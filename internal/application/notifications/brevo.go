package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"barterzone-backend/internal/domain"

	"gorm.io/gorm"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// brevoSendRequest matches Brevo API v3 send transactional email body.
type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	HTMLContent string         `json:"htmlContent"`
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BrevoNotifier emails trade notifications via the Brevo API. Empty APIKey
// makes every send a no-op so local dev works without credentials.
type BrevoNotifier struct {
	APIKey   string
	MailFrom string
	DB       *gorm.DB
	Client   *http.Client
}

func (n *BrevoNotifier) from() string {
	if n.MailFrom != "" {
		return n.MailFrom
	}
	return "noreply@barterzone.app"
}

func (n *BrevoNotifier) send(ctx context.Context, toEmail, subject, html string) error {
	if n.APIKey == "" {
		return nil
	}
	body := brevoSendRequest{
		Sender:      brevoAddress{Email: n.from(), Name: "BarterZone"},
		To:          []brevoAddress{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", n.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if n.Client == nil {
		n.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// TradeProposed notifies the target user of a new incoming trade request.
func (n *BrevoNotifier) TradeProposed(ctx context.Context, trade *domain.Trade) error {
	target, initiator, err := n.parties(ctx, trade)
	if err != nil {
		return err
	}
	content := fmt.Sprintf(
		"<h1>New trade request</h1><p>%s has offered one of their items for yours. "+
			"Log in to review and respond.</p>", displayName(initiator))
	return n.send(ctx, target.Email, "You have a new trade request", Layout(content))
}

// TradeAccepted notifies the initiator that their request was accepted.
func (n *BrevoNotifier) TradeAccepted(ctx context.Context, trade *domain.Trade) error {
	target, initiator, err := n.parties(ctx, trade)
	if err != nil {
		return err
	}
	content := fmt.Sprintf(
		"<h1>Trade accepted</h1><p>%s accepted your trade request. "+
			"Head to the trade page to arrange the exchange.</p>", displayName(target))
	return n.send(ctx, initiator.Email, "Your trade request was accepted", Layout(content))
}

func (n *BrevoNotifier) parties(ctx context.Context, trade *domain.Trade) (target, initiator *domain.User, err error) {
	var t, i domain.User
	if err := n.DB.WithContext(ctx).Where("user_id = ?", trade.TargetUserID).First(&t).Error; err != nil {
		return nil, nil, err
	}
	if err := n.DB.WithContext(ctx).Where("user_id = ?", trade.OfferUserID).First(&i).Error; err != nil {
		return nil, nil, err
	}
	return &t, &i, nil
}

func displayName(u *domain.User) string {
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Username
}
