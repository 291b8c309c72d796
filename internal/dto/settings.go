package dto

type SettingsPatch struct {
	IsNameHidden    *bool `json:"isNameHidden,omitempty"`
	IsPhoneHidden   *bool `json:"isPhoneHidden,omitempty"`
	IsEmailHidden   *bool `json:"isEmailHidden,omitempty"`
	IsPictureHidden *bool `json:"isPictureHidden,omitempty"`

	IsNotificationAllowed  *bool `json:"isNotificationAllowed,omitempty"`
	IsLocalNotification    *bool `json:"isLocalNotification,omitempty"`
	IsWeeklyNotification   *bool `json:"isWeeklyNotification,omitempty"`
	IsOnchangeNotification *bool `json:"isOnchangeNotification,omitempty"`
	IsOnreactNotification  *bool `json:"isOnreactNotification,omitempty"`
}

// Normalize enforces the master-toggle rule: switching notifications off
// switches every finer-grained toggle off in the same patch.
func (p *SettingsPatch) Normalize() {
	if p.IsNotificationAllowed == nil || *p.IsNotificationAllowed {
		return
	}
	off := false
	p.IsLocalNotification = &off
	p.IsWeeklyNotification = &off
	p.IsOnchangeNotification = &off
	p.IsOnreactNotification = &off
}
