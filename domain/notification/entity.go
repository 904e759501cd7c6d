package notification

import "time"

type Notification struct {
	ID          string `json:"id" gorm:"primary_key;type:varchar(36)"`
	UserID      string `json:"userId" gorm:"type:varchar(36);not null;index"`
	WorkOrderID string `json:"workOrderId" gorm:"type:varchar(36);not null;index"`
	Message     string `json:"message" gorm:"type:varchar(512);not null"`

	// ReadStatus belongs to the owner, AdminReadStatus to administrators. They never affect each other.
	ReadStatus      bool `json:"readStatus" gorm:"not null"`
	AdminReadStatus bool `json:"adminReadStatus" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

type NotificationView struct {
	Notification
	// Read is the flag of the viewer's role.
	Read bool `json:"read"`
}

type NotificationList struct {
	Data        []NotificationView `json:"data"`
	UnreadCount int                `json:"unreadCount"`
}
