package chatbot_test

import (
	"github.com/frahmantamala/onboarding-portal/internal/chatbot"
	"github.com/frahmantamala/onboarding-portal/internal/query"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseIntent", func() {
	It("parses a bare count question", func() {
		intent := chatbot.ParseIntent("how many candidates")
		Expect(intent).To(Equal(&chatbot.Intent{
			Type:       chatbot.QueryCount,
			Collection: query.CollectionCandidates,
			Filters:    query.Filters{},
		}))
	})

	It("treats a qualifier plus a collection as an implicit find", func() {
		intent := chatbot.ParseIntent("engineering employees")
		Expect(intent).To(Equal(&chatbot.Intent{
			Type:       chatbot.QueryFind,
			Collection: query.CollectionEmployees,
			Filters:    query.Filters{"department": "Engineering"},
		}))
	})

	It("returns nil for small talk", func() {
		Expect(chatbot.ParseIntent("tell me a joke")).To(BeNil())
		Expect(chatbot.ParseIntent("")).To(BeNil())
	})

	It("returns nil when a query keyword has no collection", func() {
		Expect(chatbot.ParseIntent("how do I get a parking pass")).To(BeNil())
	})

	DescribeTable("collection aliases",
		func(message, collection string) {
			intent := chatbot.ParseIntent(message)
			Expect(intent).NotTo(BeNil())
			Expect(intent.Collection).To(Equal(collection))
		},
		Entry("applicants", "count the applicants", query.CollectionCandidates),
		Entry("staff", "list staff", query.CollectionEmployees),
		Entry("team members", "show team members", query.CollectionEmployees),
		Entry("new joiners", "show new joiners", query.CollectionOnboardingSubmissions),
		Entry("accounts", "how many accounts", query.CollectionUsers),
		Entry("user accounts", "list user accounts", query.CollectionUsers),
	)

	It("prefers the longest alias", func() {
		intent := chatbot.ParseIntent("how many onboarding submissions")
		Expect(intent.Collection).To(Equal(query.CollectionOnboardingSubmissions))
	})

	Describe("priority", func() {
		It("ranks schema above everything else", func() {
			intent := chatbot.ParseIntent("show me the available fields for employees")
			Expect(intent.Type).To(Equal(chatbot.QuerySchema))
			Expect(intent.Collection).To(Equal(query.CollectionEmployees))
		})

		It("allows schema questions without a collection", func() {
			intent := chatbot.ParseIntent("what can i ask about")
			Expect(intent).NotTo(BeNil())
			Expect(intent.Type).To(Equal(chatbot.QuerySchema))
			Expect(intent.Collection).To(BeEmpty())
		})

		It("ranks stats above count", func() {
			intent := chatbot.ParseIntent("total breakdown of candidates")
			Expect(intent.Type).To(Equal(chatbot.QueryStats))
			Expect(intent.Filters).To(BeEmpty())
		})

		It("ranks count above find", func() {
			intent := chatbot.ParseIntent("show the number of employees")
			Expect(intent.Type).To(Equal(chatbot.QueryCount))
		})
	})

	Describe("filters", func() {
		It("maps candidate statuses onto offerStatus", func() {
			intent := chatbot.ParseIntent("how many candidates accepted offer")
			Expect(intent.Filters).To(Equal(query.Filters{"offerStatus": "ACCEPTED"}))
		})

		It("maps submission statuses onto status", func() {
			intent := chatbot.ParseIntent("list rejected onboarding submissions")
			Expect(intent.Filters).To(Equal(query.Filters{"status": "REJECTED"}))

			intent = chatbot.ParseIntent("count new joiners with pass sent")
			Expect(intent.Filters).To(Equal(query.Filters{"status": "PASS_SENT"}))
		})

		It("maps active and inactive onto isActive", func() {
			intent := chatbot.ParseIntent("inactive employees")
			Expect(intent.Filters).To(Equal(query.Filters{"isActive": false}))

			intent = chatbot.ParseIntent("how many active users")
			Expect(intent.Filters).To(Equal(query.Filters{"isActive": true}))
		})

		It("combines status and department for employees", func() {
			intent := chatbot.ParseIntent("find active sales employees")
			Expect(intent.Filters).To(Equal(query.Filters{"isActive": true, "department": "Sales"}))
		})

		It("ignores departments outside Employees", func() {
			intent := chatbot.ParseIntent("how many engineering candidates")
			Expect(intent.Filters).To(BeEmpty())
		})

		It("matches whole words only", func() {
			intent := chatbot.ParseIntent("list three employees")
			Expect(intent.Filters).NotTo(HaveKey("department"))
		})
	})
})
