package models

import (
	"time"
)

// Reservation 预订模型
//
// 金额字段均为韩元整数。BaseAmount 为房价×晚数，
// TotalAmount = BaseAmount - UsedPoints - CouponDiscount，下限为 0。
type Reservation struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo  string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"reservation_no"`
	UserID         int64     `gorm:"index;not null" json:"user_id"`
	HotelID        int64     `gorm:"index;not null" json:"hotel_id"`
	RoomID         int64     `gorm:"index;not null" json:"room_id"`
	CheckIn        time.Time `gorm:"type:date;not null" json:"check_in"`
	CheckOut       time.Time `gorm:"type:date;not null" json:"check_out"`
	Nights         int       `gorm:"not null" json:"nights"`
	Guests         int       `gorm:"not null;default:1" json:"guests"`
	BaseAmount     int64     `gorm:"not null" json:"base_amount"`
	UsedPoints     int64     `gorm:"not null;default:0" json:"used_points"`
	CouponCode     *string   `gorm:"type:varchar(32)" json:"coupon_code,omitempty"`
	CouponDiscount int64     `gorm:"not null;default:0" json:"coupon_discount"`
	TotalAmount    int64     `gorm:"not null" json:"total_amount"`
	Status         string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// 支付信息
	PaymentMethod *string    `gorm:"type:varchar(20)" json:"payment_method,omitempty"`
	PaymentStatus string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	TransactionID *string    `gorm:"type:varchar(64);index" json:"transaction_id,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	RefundedAt    *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	Room  *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
// pending → confirmed → completed，pending/confirmed → cancelled。
// cancelled 与 completed 为终态，不接受任何后续流转。
const (
	ReservationStatusPending   = "pending"   // 待支付
	ReservationStatusConfirmed = "confirmed" // 已确认
	ReservationStatusCancelled = "cancelled" // 已取消
	ReservationStatusCompleted = "completed" // 已完成
)

// PaymentStatus 支付状态
const (
	PaymentStatusPending   = "pending"   // 待支付
	PaymentStatusCompleted = "completed" // 已支付
	PaymentStatusFailed    = "failed"    // 支付失败
	PaymentStatusRefunded  = "refunded"  // 已退款
)

// IsTerminal 判断预订是否处于终态
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusCancelled || r.Status == ReservationStatusCompleted
}
