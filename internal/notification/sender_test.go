package notification_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RelaySender", func() {
	var (
		server   *httptest.Server
		status   int
		received map[string]interface{}
		headers  http.Header
	)

	BeforeEach(func() {
		status = http.StatusAccepted
		received = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			headers = r.Header.Clone()
			Expect(json.NewDecoder(r.Body).Decode(&received)).To(Succeed())
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"mailbox unavailable"}`))
		}))
	})

	AfterEach(func() {
		server.Close()
	})

	newSender := func() notification.Sender {
		return notification.NewSender(internal.NotificationConfig{
			RelayURL: server.URL,
			APIKey:   "relay-key",
			Sender:   "hr@winwire.com",
			Timeout:  time.Second,
		}, discardLogger())
	}

	msg := notification.Message{
		ID:      "n-1",
		Kind:    notification.KindOffer,
		To:      []string{"arjun@example.com"},
		Subject: "Job Offer",
		Body:    "Dear Arjun",
	}

	It("posts the message as JSON with the api key", func() {
		Expect(newSender().Send(context.Background(), msg)).To(Succeed())

		Expect(headers.Get("X-API-Key")).To(Equal("relay-key"))
		Expect(headers.Get("Idempotency-Key")).To(Equal("n-1"))
		Expect(received).To(HaveKeyWithValue("from", "hr@winwire.com"))
		Expect(received).To(HaveKeyWithValue("subject", "Job Offer"))
		Expect(received).To(HaveKeyWithValue("text", "Dear Arjun"))
		Expect(received["to"]).To(ConsistOf("arjun@example.com"))
	})

	It("reports non-2xx answers", func() {
		status = http.StatusBadGateway

		err := newSender().Send(context.Background(), msg)

		Expect(err).To(MatchError(ContainSubstring("status 502")))
		Expect(err).To(MatchError(ContainSubstring("mailbox unavailable")))
	})

	It("falls back to logging when no relay is configured", func() {
		sender := notification.NewSender(internal.NotificationConfig{}, discardLogger())

		Expect(sender).To(BeAssignableToTypeOf(&notification.LogSender{}))
		Expect(sender.Send(context.Background(), msg)).To(Succeed())
	})
})
