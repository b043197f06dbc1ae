package models

import "time"

// Order statuses. Transitions happen only through the admin API.
const (
	OrderStatusNew        = "new"
	OrderStatusInProgress = "in_progress"
	OrderStatusDone       = "done"
)

// OrderStatuses lists every stored order status.
var OrderStatuses = []string{OrderStatusNew, OrderStatusInProgress, OrderStatusDone}

// IsOrderStatus reports whether s is a stored order status.
func IsOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is a customer inquiry sent from the contact form.
type Order struct {
	ID           uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `json:"name" gorm:"column:name;type:text;not null"`
	Email        string    `json:"email" gorm:"column:email;type:text;not null"`
	Phone        string    `json:"phone" gorm:"column:phone;type:text;not null;default:''"`
	Subject      string    `json:"subject" gorm:"column:subject;type:text;not null;default:''"`
	ConcreteType string    `json:"concrete_type" gorm:"column:concrete_type;type:text;not null;default:''"`
	Message      string    `json:"message" gorm:"column:message;type:text;not null"`
	Status       string    `json:"status" gorm:"column:status;type:varchar(32);not null;index:idx_orders_status"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime;index:idx_orders_created_at"`
}

func (Order) TableName() string { return "orders" }
