package onboarding

import (
	"time"

	"gorm.io/datatypes"
)

// Profile holds the personal, financial and education fields captured at submission.
type Profile struct {
	FirstName                string     `gorm:"column:first_name;not null"`
	MiddleName               string     `gorm:"column:middle_name"`
	LastName                 string     `gorm:"column:last_name;not null"`
	FullName                 string     `gorm:"column:full_name;not null"`
	Email                    string     `gorm:"column:email;not null;index"`
	Phone                    string     `gorm:"column:phone;not null"`
	DateOfBirth              *time.Time `gorm:"column:date_of_birth;type:date"`
	Address                  string     `gorm:"column:address"`
	City                     string     `gorm:"column:city"`
	State                    string     `gorm:"column:state"`
	Pincode                  string     `gorm:"column:pincode"`
	LinkedinURL              string     `gorm:"column:linkedin_url"`
	Department               string     `gorm:"column:department;index"`
	Position                 string     `gorm:"column:position"`
	EmergencyContactName     string     `gorm:"column:emergency_contact_name"`
	EmergencyContactPhone    string     `gorm:"column:emergency_contact_phone"`
	EmergencyContactRelation string     `gorm:"column:emergency_contact_relation"`
	BankAccountNumber        string     `gorm:"column:bank_account_number"`
	BankName                 string     `gorm:"column:bank_name"`
	BankIFSC                 string     `gorm:"column:bank_ifsc"`
	SelfDescription          string     `gorm:"column:self_description"`
	TenthPercentage          float64    `gorm:"column:tenth_percentage"`
	TwelfthPercentage        float64    `gorm:"column:twelfth_percentage"`
	DegreePercentage         float64    `gorm:"column:degree_percentage"`
	TotalExperience          float64    `gorm:"column:total_experience"`
	AadhaarNumber            string     `gorm:"column:aadhaar_number"`
	PANNumber                string     `gorm:"column:pan_number"`
	AboutMe                  string     `gorm:"column:about_me"`
}

type Submission struct {
	ID                 int64          `gorm:"primaryKey"`
	CandidateID        int64          `gorm:"column:candidate_id;not null;index;uniqueIndex:idx_onboarding_submissions_active_candidate,where:status <> 'REJECTED'"`
	UserID             int64          `gorm:"column:user_id;index"`
	Status             string         `gorm:"column:status;not null;index;check:chk_onboarding_submissions_status,status IN ('SUBMITTED', 'REJECTED', 'PASS_SENT', 'PASS_ACCEPTED')"`
	Profile            Profile        `gorm:"embedded"`
	PreviousCompanies  datatypes.JSON `gorm:"column:previous_companies"`
	Documents          []Document     `gorm:"foreignKey:SubmissionID"`
	HRRemarks          string         `gorm:"column:hr_remarks"`
	ReviewedBy         *int64         `gorm:"column:reviewed_by"`
	ReviewedAt         *time.Time     `gorm:"column:reviewed_at"`
	PassToken          string         `gorm:"column:pass_token;index"`
	PassTokenExpiresAt *time.Time     `gorm:"column:pass_token_expires_at"`
	PassSentAt         *time.Time     `gorm:"column:pass_sent_at"`
	PassAcceptedAt     *time.Time     `gorm:"column:pass_accepted_at"`
	DateOfJoining      *time.Time     `gorm:"column:date_of_joining;type:date"`
	EmployeeCreated    bool           `gorm:"column:employee_created;not null"`
	EmployeeID         *string        `gorm:"column:employee_id"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Submission) TableName() string {
	return "onboarding_submissions"
}

// Document is one uploaded file. Field names the form slot (e.g. "panDocument"),
// Position orders multi-file slots such as experienceLetters.
type Document struct {
	ID           int64     `gorm:"primaryKey"`
	SubmissionID int64     `gorm:"column:submission_id;not null;index"`
	Field        string    `gorm:"column:field;not null"`
	Position     int       `gorm:"column:position;not null"`
	Filename     string    `gorm:"column:filename;not null"`
	ContentType  string    `gorm:"column:content_type;not null"`
	Data         []byte    `gorm:"column:data;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Document) TableName() string {
	return "onboarding_documents"
}
