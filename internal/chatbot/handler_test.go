package chatbot_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/chatbot"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockDispatcher struct {
	last chatbot.Request
	err  error
}

func (m *mockDispatcher) Handle(ctx context.Context, req chatbot.Request) (*chatbot.Reply, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return &chatbot.Reply{Text: "ok", Source: chatbot.SourceDatabase}, nil
}

type staticHealth struct{}

func (staticHealth) Health() chatbot.Health {
	return chatbot.Health{Status: "not-configured"}
}

var _ = Describe("Chatbot Handler", func() {
	var (
		dispatcher *mockDispatcher
		handler    *chatbot.Handler
	)

	post := func(body any, user *internal.User) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chatbot/message", bytes.NewReader(payload))
		if user != nil {
			req = req.WithContext(internal.ContextWithUser(req.Context(), user))
		}
		w := httptest.NewRecorder()
		handler.SendMessage(w, req)
		return w
	}

	BeforeEach(func() {
		dispatcher = &mockDispatcher{}
		base := transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = chatbot.NewHandler(base, dispatcher, staticHealth{})
	})

	It("returns the dispatcher reply", func() {
		w := post(chatbot.MessageRequest{Message: "how many candidates", UserRole: "HR"}, &internal.User{ID: 1, Role: internal.RoleHR})
		Expect(w.Code).To(Equal(http.StatusOK))

		var resp chatbot.MessageResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Success).To(BeTrue())
		Expect(resp.UserRole).To(Equal("HR"))
		Expect(resp.Response).To(Equal("ok"))
		Expect(resp.Source).To(Equal(chatbot.SourceDatabase))
	})

	It("downgrades an HR claim from a non-HR caller", func() {
		w := post(chatbot.MessageRequest{Message: "how many candidates", UserRole: "HR"}, &internal.User{ID: 2, Role: internal.RoleEmployee})
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(dispatcher.last.Role).To(Equal(internal.RoleEmployee))
	})

	It("defaults unknown roles to EMPLOYEE", func() {
		post(chatbot.MessageRequest{Message: "hi", UserRole: "ADMIN"}, &internal.User{ID: 1, Role: internal.RoleHR})
		Expect(dispatcher.last.Role).To(Equal(internal.RoleEmployee))
	})

	It("maps dispatcher errors to the error envelope", func() {
		dispatcher.err = internal.ErrAssistantFailed
		w := post(chatbot.MessageRequest{Message: "hi"}, nil)
		Expect(w.Code).To(Equal(http.StatusInternalServerError))

		var resp internal.Response
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Success).To(BeFalse())
		Expect(resp.Message).To(Equal("Failed to get response from chatbot. Please try again."))
	})

	It("rejects malformed bodies", func() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chatbot/message", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		handler.SendMessage(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("serves health", func() {
		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/v1/chatbot/health", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"not-configured"`))
		Expect(w.Body.String()).To(ContainSubstring(`"success":true`))
	})
})
