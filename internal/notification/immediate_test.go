package notification_test

import (
	"context"
	"errors"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ImmediateQueue", func() {
	It("sends future messages right away and assigns an id", func() {
		sender := &recordingSender{}
		queue := notification.NewImmediateQueue(sender)

		err := queue.Enqueue(context.Background(), notification.Message{Kind: notification.KindWelcome}, time.Now().Add(24*time.Hour))
		Expect(err).NotTo(HaveOccurred())

		sent := sender.messages()
		Expect(sent).To(HaveLen(1))
		Expect(sent[0].ID).NotTo(BeEmpty())
	})

	It("returns the sender error", func() {
		sender := &recordingSender{err: errors.New("relay down")}
		queue := notification.NewImmediateQueue(sender)

		err := queue.Enqueue(context.Background(), notification.Message{Kind: notification.KindOffer}, time.Time{})
		Expect(err).To(MatchError("relay down"))
	})
})
