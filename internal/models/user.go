package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает учётную запись платформы.
type User struct {
	ID           int64      `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	LastSignedIn *time.Time `db:"last_signed_in" json:"lastSignedIn,omitempty"`
}

// IsAdmin сообщает, относится ли пользователь к повышенному уровню доступа.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AdminSession серверная сессия администратора. ID совпадает с jti токена.
type AdminSession struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	UserAgent *string   `db:"user_agent" json:"userAgent,omitempty"`
	IPAddress *string   `db:"ip_address" json:"ipAddress,omitempty"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
