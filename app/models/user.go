package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	ROLE_USER      = "user"
	ROLE_MODERATOR = "moderator"

	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
)

// InactivityWindow is how long a user may go without logging in before the
// deactivation sweep turns them inactive.
const InactivityWindow = 30 * 24 * time.Hour

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password    string     `gorm:"type:text" json:"-" validate:"required,min=6"`
	FirstName   string     `gorm:"type:varchar(150)" json:"first_name" validate:"max=150"`
	LastName    string     `gorm:"type:varchar(150)" json:"last_name" validate:"max=150"`
	Phone       string     `gorm:"type:varchar(20)" json:"phone" validate:"max=20"`
	City        string     `gorm:"type:varchar(100)" json:"city" validate:"max=100"`
	AvatarURL   string     `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"omitempty,url,max=255"`
	Role        string     `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user moderator"`
	IsStaff     bool       `gorm:"default:false" json:"is_staff"`
	Status      string     `gorm:"type:varchar(50);default:'active'" json:"status" validate:"oneof=active inactive"`
	LastLoginAt *time.Time `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

func CreateUser(email string, password string) (*User, error) {
	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:    email,
		Password: pw,
		Role:     ROLE_USER,
		Status:   STATUS_ACTIVE,
	}

	err = u.Validate()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// IsActive reports whether the user status is active
func (u *User) IsActive() bool {
	return u.Status == STATUS_ACTIVE
}

// IsModerator reports whether the user belongs to the moderator role
func (u *User) IsModerator() bool {
	return u.Role == ROLE_MODERATOR
}

// CheckPassword verifies if the provided password matches the user's stored password
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.Password)
}

// SetPassword hashes and sets a new password for the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	u.Password = hashedPassword
	return nil
}
