package domain

import "time"

type User struct {
	ID                   UserID     `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	FirstName            string     `gorm:"type:text;not null" db:"first_name" json:"firstName"`
	LastName             *string    `gorm:"type:text" db:"last_name" json:"lastName,omitempty"`
	Email                string     `gorm:"type:text;uniqueIndex:ux_users_email;not null" db:"email" json:"email"`
	PhoneNumber          *string    `gorm:"type:text;uniqueIndex:ux_users_phone" db:"phone_number" json:"phoneNumber,omitempty"`
	HashedPassword       string     `gorm:"type:text;not null" db:"hashed_password" json:"-"`
	PicturePath          *string    `gorm:"type:text" db:"picture_path" json:"picturePath,omitempty"`
	IsActive             bool       `gorm:"not null;default:true" db:"is_active" json:"isActive"`
	IsAdmin              bool       `gorm:"not null;default:false" db:"is_admin" json:"isAdmin"`
	CreatedDatetime      time.Time  `gorm:"not null" db:"created_datetime" json:"createdDatetime"`
	DeactivatedDatetime  *time.Time `db:"deactivated_datetime" json:"deactivatedDatetime,omitempty"`

	Address  *UserAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"address,omitempty"`
	Settings *UserSetting `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"settings,omitempty"`
}

func (User) TableName() string { return "users" }

type UserAddress struct {
	ID         int64   `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID     UserID  `gorm:"uniqueIndex:ux_user_addresses_user;not null" db:"user_id" json:"userId"`
	Building   *string `gorm:"type:text" db:"building" json:"building,omitempty"`
	Street     *string `gorm:"type:text" db:"street" json:"street,omitempty"`
	City       *string `gorm:"type:text" db:"city" json:"city,omitempty"`
	State      *string `gorm:"type:text" db:"state" json:"state,omitempty"`
	PostalCode *string `gorm:"type:text" db:"postal_code" json:"postalCode,omitempty"`
	Country    *string `gorm:"type:text" db:"country" json:"country,omitempty"`
}

func (UserAddress) TableName() string { return "user_addresses" }

// UserSetting holds per-user visibility and notification toggles. The master
// toggle rule (is_notification_allowed=false forces every finer toggle false)
// is enforced at the dto boundary, not here.
type UserSetting struct {
	ID     int64  `gorm:"primaryKey;autoIncrement" db:"id" json:"id"`
	UserID UserID `gorm:"uniqueIndex:ux_user_settings_user;not null" db:"user_id" json:"userId"`

	IsNameHidden    bool `gorm:"not null;default:false" db:"is_name_hidden" json:"isNameHidden"`
	IsPhoneHidden   bool `gorm:"not null;default:true" db:"is_phone_hidden" json:"isPhoneHidden"`
	IsEmailHidden   bool `gorm:"not null;default:false" db:"is_email_hidden" json:"isEmailHidden"`
	IsPictureHidden bool `gorm:"not null;default:false" db:"is_picture_hidden" json:"isPictureHidden"`

	IsNotificationAllowed  bool `gorm:"not null;default:true" db:"is_notification_allowed" json:"isNotificationAllowed"`
	IsLocalNotification    bool `gorm:"not null;default:true" db:"is_local_notification" json:"isLocalNotification"`
	IsWeeklyNotification   bool `gorm:"not null;default:false" db:"is_weekly_notification" json:"isWeeklyNotification"`
	IsOnchangeNotification bool `gorm:"not null;default:true" db:"is_onchange_notification" json:"isOnchangeNotification"`
	IsOnreactNotification  bool `gorm:"not null;default:true" db:"is_onreact_notification" json:"isOnreactNotification"`
}

func (UserSetting) TableName() string { return "user_settings" }

// DefaultSettings returns the toggle set assigned at signup.
func DefaultSettings(userID UserID) *UserSetting {
	return &UserSetting{
		UserID:                 userID,
		IsPhoneHidden:          true,
		IsNotificationAllowed:  true,
		IsLocalNotification:    true,
		IsOnchangeNotification: true,
		IsOnreactNotification:  true,
	}
}
