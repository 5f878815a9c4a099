package models

import "time"

// Profile is keyed by the identity provider's user id. It is written once
// at registration and never updated.
type Profile struct {
	ID        string    `json:"id" gorm:"type:text;primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamptz;not null;default:now();autoCreateTime:false"`
}

func (Profile) TableName() string {
	return "users"
}

// Credential is the password record kept by the local identity provider.
type Credential struct {
	ID           string    `json:"id" gorm:"type:text;primaryKey"`
	Email        string    `json:"email" gorm:"type:text;not null;uniqueIndex:idx_credentials_email"`
	PasswordHash string    `json:"-" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"type:timestamptz;not null;default:now();autoCreateTime:false"`
}

func (Credential) TableName() string {
	return "credentials"
}
