package employee_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	employeeDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/employee"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
	employeePostgres "github.com/frahmantamala/onboarding-portal/internal/employee/postgres"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Employee Service", func() {
	var (
		service *employee.Service
		ctx     context.Context
		ids     []int64
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&employeeDatamodel.Employee{}, &employeeDatamodel.Document{})).To(Succeed())

		ids = nil
		for i, active := range []bool{true, true, false} {
			e := &employeeDatamodel.Employee{
				EmployeeID: []string{"WW00001", "WW00002", "WW00003"}[i],
				FirstName:  []string{"Asha", "Ravi", "Meera"}[i],
				LastName:   "K",
				FullName:   []string{"Asha K", "Ravi K", "Meera K"}[i],
				Email:      []string{"asha@winwire.com", "ravi@winwire.com", "meera@winwire.com"}[i],
				Department: "Engineering",
				IsActive:   active,
			}
			Expect(db.Create(e).Error).NotTo(HaveOccurred())
			ids = append(ids, e.ID)
		}

		service = employee.NewService(employeePostgres.NewEmployeeRepository(db))
		ctx = context.Background()
	})

	It("lists all or only active employees", func() {
		all, err := service.ListEmployees(ctx, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))

		active, err := service.ListEmployees(ctx, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(active).To(HaveLen(2))
	})

	It("excludes the new joiner and inactive staff from colleagues", func() {
		contacts, err := service.Colleagues(ctx, ids[0])
		Expect(err).NotTo(HaveOccurred())
		Expect(contacts).To(HaveLen(1))
		Expect(contacts[0].Email).To(Equal("ravi@winwire.com"))
		Expect(contacts[0].FirstName).To(Equal("Ravi"))
	})

	It("serves the active list over HTTP", func() {
		handler := employee.NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), service)
		w := httptest.NewRecorder()
		handler.ListEmployees(w, httptest.NewRequest(http.MethodGet, "/api/v1/employees?active=true", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var body struct {
			Success   bool                        `json:"success"`
			Employees []employee.EmployeeResponse `json:"employees"`
			Count     int                         `json:"count"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.Count).To(Equal(2))
	})
})
