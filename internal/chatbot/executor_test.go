package chatbot_test

import (
	"context"
	"io"
	"log/slog"

	candidateDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/candidate"
	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
	onboardingDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/onboarding"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-portal/internal/chatbot"
	"github.com/frahmantamala/onboarding-portal/internal/query"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Executor against the query gateway", func() {
	var (
		executor *chatbot.Executor
		ctx      context.Context
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&candidateDatamodel.Candidate{},
			&employeeDatamodel.Employee{},
			&onboardingDatamodel.Submission{},
		)).To(Succeed())

		for i, dept := range []string{"Engineering", "Engineering", "Sales"} {
			Expect(db.Create(&employeeDatamodel.Employee{
				EmployeeID: []string{"WW00001", "WW00002", "WW00003"}[i],
				FirstName:  "Emp",
				LastName:   dept,
				FullName:   "Emp " + dept,
				Email:      []string{"a@winwire.com", "b@winwire.com", "c@winwire.com"}[i],
				Department: dept,
				IsActive:   true,
			}).Error).NotTo(HaveOccurred())
		}

		gateway := query.NewGateway(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
		executor = chatbot.NewExecutor(gateway)
		ctx = context.Background()
	})

	It("answers a parsed find end to end", func() {
		result, err := executor.Run(ctx, *chatbot.ParseIntent("engineering employees"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Count).To(Equal(int64(2)))
		Expect(result.Rows).To(HaveLen(2))
		Expect(chatbot.Format(result)).To(HavePrefix("Found **2** employees:"))
	})

	It("answers a parsed stats question", func() {
		result, err := executor.Run(ctx, *chatbot.ParseIntent("employee statistics"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Stats.Total).To(Equal(int64(3)))
	})

	It("narrows the schema to the named collection", func() {
		result, err := executor.Run(ctx, *chatbot.ParseIntent("which fields do candidates have"))
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Schema).To(HaveLen(1))
		Expect(result.Schema[0].Name).To(Equal(query.CollectionCandidates))
	})

	It("surfaces gateway rejections", func() {
		_, err := executor.Run(ctx, chatbot.Intent{
			Type:       chatbot.QueryCount,
			Collection: query.CollectionEmployees,
			Filters:    query.Filters{"salary": map[string]any{"$gt": 1}},
		})
		Expect(err).To(MatchError(query.ErrFieldNotAllowed))
	})
})
