package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
	"github.com/frahmantamala/onboarding-portal/internal/notification"
	"github.com/frahmantamala/onboarding-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification commands",
	Long:  `Send test notifications and preview the messages each onboarding event produces`,
}

var notifySendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a single test notification",
	Long:  `Send a test notification through the configured mail relay, or the log when none is set`,
	Run: func(cmd *cobra.Command, args []string) {
		sendTestNotification()
	},
}

var notifyEventCmd = &cobra.Command{
	Use:       "event [event-type]",
	Short:     "Publish a sample onboarding event",
	Long:      `Publish a sample onboarding event and deliver every notification it triggers immediately`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: sampleEventTypes(),
	Run: func(cmd *cobra.Command, args []string) {
		publishSampleEvent(args[0])
	},
}

var (
	notifyTo       string
	notifySubject  string
	notifyText     string
	notifyRelayURL string
)

func init() {
	notifyCmd.PersistentFlags().StringVar(&notifyTo, "to", "new.joiner@example.com", "recipient address")
	notifyCmd.PersistentFlags().StringVar(&notifyRelayURL, "relay-url", "", "mail relay URL (overrides config)")
	notifySendCmd.Flags().StringVar(&notifySubject, "subject", "Test notification", "message subject")
	notifySendCmd.Flags().StringVar(&notifyText, "text", "This is a test message from the onboarding portal.", "message body")

	notifyCmd.AddCommand(notifySendCmd)
	notifyCmd.AddCommand(notifyEventCmd)
	rootCmd.AddCommand(notifyCmd)
}

func sendTestNotification() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	cfg := config.Notification
	cfg.RelayURL = getStringFlag(notifyRelayURL, cfg.RelayURL)
	sender := notification.NewSender(cfg, lg)

	msg := notification.Message{
		Kind:    "test",
		To:      []string{notifyTo},
		Subject: notifySubject,
		Body:    notifyText,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := notification.NewImmediateQueue(sender).Enqueue(ctx, msg, time.Time{}); err != nil {
		lg.Error("failed to send test notification", "error", err)
		os.Exit(1)
	}
	lg.Info("test notification sent", "to", notifyTo)
}

func publishSampleEvent(eventType string) {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	lg := logger.LoggerWrapper()

	event, ok := sampleEvent(eventType, notifyTo, config.Onboarding.OfferTokenTTL)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown event type %q, expected one of: %s\n", eventType, strings.Join(sampleEventTypes(), ", "))
		os.Exit(1)
	}

	cfg := config.Notification
	cfg.RelayURL = getStringFlag(notifyRelayURL, cfg.RelayURL)
	queue := notification.NewImmediateQueue(notification.NewSender(cfg, lg))

	eventBus := events.NewEventBus(lg)
	notification.NewEventHandler(queue, sampleDirectory{}, config.Onboarding, lg).RegisterEventHandlers(eventBus)

	lg.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := eventBus.PublishSync(ctx, event); err != nil {
		lg.Error("failed to publish event", "error", err)
		os.Exit(1)
	}
	lg.Info("sample event handled")
}

func sampleEventTypes() []string {
	return []string{
		events.OfferCreatedEventType,
		events.JoiningTriggeredEventType,
		events.PassIssuedEventType,
		events.PassAcceptedEventType,
	}
}

func sampleEvent(eventType, email string, offerTTL time.Duration) (events.Event, bool) {
	const (
		fullName   = "Rahul Sharma"
		position   = "Software Engineer"
		department = "Engineering"
	)
	switch eventType {
	case events.OfferCreatedEventType:
		return events.NewOfferCreatedEvent(1, fullName, email, position, department, "sample-offer-token", time.Now().Add(offerTTL)), true
	case events.JoiningTriggeredEventType:
		return events.NewJoiningTriggeredEvent(1, fullName, email, "Rahul@Sample"), true
	case events.PassIssuedEventType:
		return events.NewPassIssuedEvent(1, fullName, email, "sample-pass-token", time.Now().AddDate(0, 0, 14)), true
	case events.PassAcceptedEventType:
		return events.NewPassAcceptedEvent(1, 1, "WW00001", fullName, "Rahul", email, department, position, "Rahul@Sample"), true
	}
	return nil, false
}

// sampleDirectory stands in for the employee store with one colleague.
type sampleDirectory struct{}

func (sampleDirectory) Colleagues(ctx context.Context, newJoinerID int64) ([]employee.Contact, error) {
	return []employee.Contact{{ID: 2, FirstName: "Anita", FullName: "Anita Desai", Email: "anita.desai@example.com"}}, nil
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}
