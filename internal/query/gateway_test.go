package query_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	candidateDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/candidate"
	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
	onboardingDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/onboarding"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/onboarding-portal/internal/query"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Gateway", func() {
	var (
		db      *gorm.DB
		gateway *query.Gateway
		ctx     context.Context
	)

	seedEmployee := func(id, name, dept string, active bool) {
		Expect(db.Create(&employeeDatamodel.Employee{
			EmployeeID: id,
			FirstName:  name,
			LastName:   "Test",
			FullName:   name + " Test",
			Email:      id + "@winwire.com",
			Department: dept,
			Position:   "Engineer",
			IsActive:   active,
		}).Error).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(
			&userDatamodel.User{},
			&candidateDatamodel.Candidate{},
			&employeeDatamodel.Employee{},
			&employeeDatamodel.Document{},
			&onboardingDatamodel.Submission{},
			&onboardingDatamodel.Document{},
		)).To(Succeed())

		ctx = context.Background()
		gateway = query.NewGateway(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

		seedEmployee("WW00001", "Asha", "Engineering", true)
		seedEmployee("WW00002", "Ravi", "Engineering", true)
		seedEmployee("WW00003", "Meera", "Sales", false)

		Expect(db.Create(&candidateDatamodel.Candidate{
			FullName:             "Kiran Rao",
			Email:                "kiran@example.com",
			Position:             "Analyst",
			Department:           "Finance",
			OfferStatus:          "ACCEPTED",
			AcceptTokenExpiresAt: time.Now().Add(time.Hour),
		}).Error).NotTo(HaveOccurred())
	})

	Describe("CountDocuments", func() {
		It("counts every row when no filters are given", func() {
			count, err := gateway.CountDocuments(ctx, query.CollectionEmployees, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(3)))
		})

		It("applies equality filters", func() {
			count, err := gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{"department": "Engineering"})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("applies boolean filters", func() {
			count, err := gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{"isActive": false})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})

		It("supports $in and $ne operators", func() {
			count, err := gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{
				"department": map[string]any{"$in": []any{"Sales", "Finance"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			count, err = gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{
				"department": map[string]any{"$ne": "Sales"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))
		})

		It("rejects collections outside the allow-list", func() {
			_, err := gateway.CountDocuments(ctx, "Nope", nil)
			Expect(err).To(MatchError(query.ErrCollectionNotAllowed))
		})

		It("rejects fields outside the allow-list", func() {
			_, err := gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{
				"salary": map[string]any{"$gt": 1},
			})
			Expect(err).To(MatchError(query.ErrFieldNotAllowed))
		})

		It("rejects sensitive columns even though they exist", func() {
			_, err := gateway.CountDocuments(ctx, query.CollectionOnboardingSubmissions, query.Filters{"aadhaarNumber": "123456789012"})
			Expect(err).To(MatchError(query.ErrFieldNotAllowed))

			_, err = gateway.CountDocuments(ctx, query.CollectionUsers, query.Filters{"passwordHash": "x"})
			Expect(err).To(MatchError(query.ErrFieldNotAllowed))
		})

		It("rejects unknown operators", func() {
			_, err := gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{
				"department": map[string]any{"$where": "1=1"},
			})
			Expect(err).To(MatchError(query.ErrOperatorNotAllowed))
		})

		It("rejects nested objects as operands", func() {
			_, err := gateway.CountDocuments(ctx, query.CollectionEmployees, query.Filters{
				"department": map[string]any{"$eq": map[string]any{"$gt": ""}},
			})
			Expect(err).To(MatchError(query.ErrInvalidFilterValue))
		})
	})

	Describe("FindDocuments", func() {
		It("returns only allow-listed fields", func() {
			docs, err := gateway.FindDocuments(ctx, query.CollectionCandidates, nil, query.FindOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0]).To(HaveKeyWithValue("fullName", "Kiran Rao"))
			Expect(docs[0]).To(HaveKeyWithValue("offerStatus", "ACCEPTED"))
			Expect(docs[0]).NotTo(HaveKey("acceptToken"))
			Expect(docs[0]).NotTo(HaveKey("offerLetter"))
		})

		It("normalizes booleans", func() {
			docs, err := gateway.FindDocuments(ctx, query.CollectionEmployees, query.Filters{"employeeId": "WW00003"}, query.FindOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
			Expect(docs[0]["isActive"]).To(BeFalse())
		})

		It("caps the limit", func() {
			for i := 0; i < 60; i++ {
				Expect(db.Create(&userDatamodel.User{
					Email:        fmt.Sprintf("user%02d@winwire.com", i),
					FullName:     "User",
					PasswordHash: "hash",
					Role:         "EMPLOYEE",
					IsActive:     true,
				}).Error).NotTo(HaveOccurred())
			}

			docs, err := gateway.FindDocuments(ctx, query.CollectionUsers, nil, query.FindOptions{Limit: 500})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(query.MaxFindLimit))

			docs, err = gateway.FindDocuments(ctx, query.CollectionUsers, nil, query.FindOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(query.DefaultFindLimit))
		})

		It("sorts by allow-listed fields only", func() {
			docs, err := gateway.FindDocuments(ctx, query.CollectionEmployees, nil, query.FindOptions{
				Sort: []query.SortField{{Field: "employeeId"}},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(docs[0]["employeeId"]).To(Equal("WW00001"))

			_, err = gateway.FindDocuments(ctx, query.CollectionEmployees, nil, query.FindOptions{
				Sort: []query.SortField{{Field: "bankAccountNumber"}},
			})
			Expect(err).To(MatchError(query.ErrFieldNotAllowed))
		})
	})

	Describe("GetCollectionStats", func() {
		It("groups by status and department", func() {
			stats, err := gateway.GetCollectionStats(ctx, query.CollectionEmployees)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Total).To(Equal(int64(3)))
			Expect(stats.ByStatus).To(ConsistOf(
				query.GroupCount{Key: "Active", Count: 2},
				query.GroupCount{Key: "Inactive", Count: 1},
			))
			Expect(stats.ByDepartment[0]).To(Equal(query.GroupCount{Key: "Engineering", Count: 2}))
		})

		It("omits the department breakdown when the collection has none", func() {
			stats, err := gateway.GetCollectionStats(ctx, query.CollectionUsers)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.ByDepartment).To(BeEmpty())
		})
	})

	Describe("GetCollectionSummary", func() {
		It("lists every allowed collection", func() {
			summary := gateway.GetCollectionSummary()
			Expect(summary).To(HaveLen(4))
			Expect(summary[0].Name).To(Equal(query.CollectionCandidates))
			Expect(summary[1].Fields).To(ContainElement("department"))
			Expect(summary[1].Fields).NotTo(ContainElement("bankAccountNumber"))
		})
	})
})
