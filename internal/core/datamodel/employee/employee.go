package employee

import "time"

type Employee struct {
	ID                     int64      `gorm:"primaryKey"`
	EmployeeID             string     `gorm:"column:employee_id;uniqueIndex;not null"`
	UserID                 *int64     `gorm:"column:user_id;index"`
	OnboardingSubmissionID int64      `gorm:"column:onboarding_submission_id;not null"`
	FirstName              string     `gorm:"column:first_name;not null"`
	MiddleName             string     `gorm:"column:middle_name"`
	LastName               string     `gorm:"column:last_name;not null"`
	FullName               string     `gorm:"column:full_name;not null"`
	Email                  string     `gorm:"column:email;not null;index"`
	Phone                  string     `gorm:"column:phone"`
	DateOfBirth            *time.Time `gorm:"column:date_of_birth;type:date"`
	LinkedinURL            string     `gorm:"column:linkedin_url"`
	ReportingManager       string     `gorm:"column:reporting_manager"`
	Department             string     `gorm:"column:department;index"`
	Position               string     `gorm:"column:position"`
	AboutMe                string     `gorm:"column:about_me"`
	JoiningDate            *time.Time `gorm:"column:joining_date;type:date"`
	IsActive               bool       `gorm:"column:is_active;not null"`
	Documents              []Document `gorm:"foreignKey:EmployeeRecordID"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

type Document struct {
	ID               int64     `gorm:"primaryKey"`
	EmployeeRecordID int64     `gorm:"column:employee_record_id;not null;index"`
	Field            string    `gorm:"column:field;not null"`
	Position         int       `gorm:"column:position;not null"`
	Filename         string    `gorm:"column:filename;not null"`
	ContentType      string    `gorm:"column:content_type;not null"`
	Data             []byte    `gorm:"column:data;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Document) TableName() string {
	return "employee_documents"
}

// Sequence is a named monotonic counter; employee ids are drawn from the "employee_id" row.
type Sequence struct {
	Name      string    `gorm:"column:name;primaryKey"`
	Value     int64     `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sequence) TableName() string {
	return "sequences"
}
