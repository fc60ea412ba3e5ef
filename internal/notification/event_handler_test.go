package notification_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
	"github.com/frahmantamala/onboarding-portal/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type queued struct {
	msg notification.Message
	at  time.Time
}

type recordingQueue struct {
	mu    sync.Mutex
	items []queued
}

func (q *recordingQueue) Enqueue(ctx context.Context, msg notification.Message, at time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, queued{msg: msg, at: at})
	return nil
}

func (q *recordingQueue) snapshot() []queued {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]queued(nil), q.items...)
}

type stubDirectory struct {
	excluded int64
	contacts []employee.Contact
	err      error
}

func (d *stubDirectory) Colleagues(ctx context.Context, newJoinerID int64) ([]employee.Contact, error) {
	d.excluded = newJoinerID
	return d.contacts, d.err
}

var _ = Describe("EventHandler", func() {
	var (
		queue     *recordingQueue
		directory *stubDirectory
		handler   *notification.EventHandler
		now       time.Time
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
		queue = &recordingQueue{}
		directory = &stubDirectory{contacts: []employee.Contact{
			{ID: 1, FirstName: "Ravi", Email: "ravi@winwire.com"},
			{ID: 2, FirstName: "Asha", Email: "asha@winwire.com"},
		}}
		handler = notification.NewEventHandler(queue, directory, internal.OnboardingConfig{
			PortalURL:    "https://portal.example.com/",
			WelcomeDelay: time.Minute,
		}, discardLogger()).WithClock(func() time.Time { return now })
	})

	accepted := func() *events.PassAcceptedEvent {
		return events.NewPassAcceptedEvent(4, 9, "WW00009", "Neha Rao", "Neha", "neha@example.com", "Engineering", "Software Engineer", "NEH@WW2025")
	}

	It("sends the offer link immediately", func() {
		event := events.NewOfferCreatedEvent(3, "Arjun Mehta", "arjun@example.com", "Analyst", "Finance", "tok-1", now.Add(7*24*time.Hour))

		Expect(handler.HandleOfferCreated(ctx, event)).To(Succeed())

		items := queue.snapshot()
		Expect(items).To(HaveLen(1))
		Expect(items[0].at).To(Equal(now))
		Expect(items[0].msg.To).To(ConsistOf("arjun@example.com"))
		Expect(items[0].msg.Body).To(ContainSubstring("https://portal.example.com/accept-offer/tok-1"))
	})

	It("mails the temporary password on joining", func() {
		Expect(handler.HandleJoiningTriggered(ctx, events.NewJoiningTriggeredEvent(3, "Arjun Mehta", "arjun@example.com", "ARJ@WW2025"))).To(Succeed())

		Expect(queue.snapshot()[0].msg.Kind).To(Equal(notification.KindCredentials))
		Expect(queue.snapshot()[0].msg.Body).To(ContainSubstring("ARJ@WW2025"))
	})

	It("mails the onboarding pass link", func() {
		event := events.NewPassIssuedEvent(4, "Neha Rao", "neha@example.com", "pass-1", time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC))

		Expect(handler.HandlePassIssued(ctx, event)).To(Succeed())

		msg := queue.snapshot()[0].msg
		Expect(msg.Kind).To(Equal(notification.KindOnboardingPass))
		Expect(msg.Body).To(ContainSubstring("/onboarding-pass/pass-1"))
		Expect(msg.Body).To(ContainSubstring("03 Feb 2025"))
	})

	Describe("pass accepted", func() {
		It("announces the joiner now and schedules five welcome messages after the delay", func() {
			Expect(handler.HandlePassAccepted(ctx, accepted())).To(Succeed())

			Expect(directory.excluded).To(Equal(int64(9)))

			var broadcast, welcome []queued
			for _, item := range queue.snapshot() {
				if item.msg.Kind == notification.KindNewJoiner {
					broadcast = append(broadcast, item)
				} else {
					welcome = append(welcome, item)
				}
			}

			Expect(broadcast).To(HaveLen(2))
			for _, item := range broadcast {
				Expect(item.at).To(Equal(now))
				Expect(item.msg.Body).To(ContainSubstring("Neha Rao"))
			}

			Expect(welcome).To(HaveLen(5))
			for _, item := range welcome {
				Expect(item.at).To(Equal(now.Add(time.Minute)))
				Expect(item.msg.To).To(ConsistOf("neha@example.com"))
			}
			Expect(welcome[0].msg.Body).To(ContainSubstring("WW00009"))
		})

		It("still schedules the welcome series when the directory fails", func() {
			directory.err = errors.New("db down")

			Expect(handler.HandlePassAccepted(ctx, accepted())).To(HaveOccurred())
			Expect(queue.snapshot()).To(HaveLen(5))
		})
	})

	It("rejects events of the wrong type", func() {
		Expect(handler.HandlePassIssued(ctx, accepted())).To(HaveOccurred())
	})

	It("delivers through the bus and the worker pool", func() {
		sender := &recordingSender{}
		scheduler := notification.NewScheduler(sender, notification.SchedulerConfig{MaxWorkers: 1}, discardLogger())
		defer scheduler.Shutdown()

		bus := events.NewEventBus(discardLogger())
		notification.NewEventHandler(scheduler, directory, internal.OnboardingConfig{
			WelcomeDelay: 50 * time.Millisecond,
		}, discardLogger()).RegisterEventHandlers(bus)

		Expect(bus.Publish(ctx, accepted())).To(Succeed())
		bus.Wait()

		Eventually(sender.kinds).Should(ConsistOf(
			notification.KindNewJoiner, notification.KindNewJoiner,
			notification.KindWelcome, notification.KindFirstDay, notification.KindPolicies,
			notification.KindITSetup, notification.KindTeamIntroduction,
		))
	})
})
