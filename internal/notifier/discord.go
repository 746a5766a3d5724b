package notifier

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/campuslab/campus-events-api/internal/models"
)

// Kind selects the message template for a notification.
type Kind string

const (
	KindEventSubmitted    Kind = "event_submitted"
	KindEventApproved     Kind = "event_approved"
	KindRevisionRequested Kind = "revision_requested"
	KindEventCancelled    Kind = "event_cancelled"
	KindWaitlistPromoted  Kind = "waitlist_promoted"
)

// Notifier is the fire-and-forget notification sink. The engine never
// depends on its result for correctness; failures are logged and dropped.
type Notifier interface {
	Notify(kind Kind, recipients []models.User, event models.Event, detail string) error
}

type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) Notify(kind Kind, recipients []models.User, event models.Event, detail string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	mentions := make([]string, 0, len(recipients))
	for _, u := range recipients {
		if u.DiscordID != "" {
			mentions = append(mentions, fmt.Sprintf("<@%s>", u.DiscordID))
		}
	}

	var headline string
	switch kind {
	case KindEventSubmitted:
		headline = fmt.Sprintf("📥 **%s** was submitted for approval", event.Title)
	case KindEventApproved:
		headline = fmt.Sprintf("✅ **%s** was approved and is now published", event.Title)
	case KindRevisionRequested:
		headline = fmt.Sprintf("📝 **%s** needs changes before it can be published", event.Title)
	case KindEventCancelled:
		headline = fmt.Sprintf("❌ **%s** has been cancelled 😢", event.Title)
	case KindWaitlistPromoted:
		headline = fmt.Sprintf("🎉 A spot opened up for **%s**, you're in!", event.Title)
	default:
		headline = fmt.Sprintf("ℹ️ Update for **%s**", event.Title)
	}

	message := headline
	if !event.StartsAt.IsZero() {
		message += fmt.Sprintf("\n**When:** %s", event.StartsAt.Format("2006-01-02 15:04"))
	}
	if detail != "" {
		message += fmt.Sprintf("\n**Details:** %s", detail)
	}
	if len(mentions) > 0 {
		message += "\n" + strings.Join(mentions, " ")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}

	return nil
}
