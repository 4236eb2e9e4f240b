package entity

import "time"

type User struct {
	ID         int64     `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name" db:"name"`
	Username   string    `json:"username,omitempty" db:"username"`
	Nickname   string    `json:"nickname,omitempty" db:"nickname"`
	TelegramID string    `json:"telegram_id" db:"telegram_id"`
	Onboarded  bool      `json:"onboarded" db:"onboarded"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PaymentMethod is one entry of the read-only payment methods catalog.
type PaymentMethod struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	DisplayName   string `json:"display_name"`
	QRISURL       string `json:"qris_url,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	IsActive      bool   `json:"is_active"`
}
