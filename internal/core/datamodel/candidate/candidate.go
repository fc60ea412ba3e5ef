package candidate

import "time"

type Candidate struct {
	ID                     int64      `gorm:"primaryKey"`
	FullName               string     `gorm:"column:full_name;not null"`
	Email                  string     `gorm:"column:email;uniqueIndex;not null"`
	Phone                  string     `gorm:"column:phone"`
	Position               string     `gorm:"column:position;not null"`
	Department             string     `gorm:"column:department;not null"`
	OfferStatus            string     `gorm:"column:offer_status;not null;index"`
	OfferLetterFilename    string     `gorm:"column:offer_letter_filename"`
	OfferLetterContentType string     `gorm:"column:offer_letter_content_type"`
	OfferLetter            []byte     `gorm:"column:offer_letter_data"`
	AcceptToken            string     `gorm:"column:accept_token;index"`
	AcceptTokenExpiresAt   time.Time  `gorm:"column:accept_token_expires_at"`
	OfferAcceptedAt        *time.Time `gorm:"column:offer_accepted_at"`
	JoiningTriggered       bool       `gorm:"column:joining_triggered;not null"`
	JoiningTriggeredAt     *time.Time `gorm:"column:joining_triggered_at"`
	CreatedBy              int64      `gorm:"column:created_by"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}
