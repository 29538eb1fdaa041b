package staff

import "time"

type Staff struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;uniqueIndex;not null"`
	Phone     string    `gorm:"column:phone"`
	Position  string    `gorm:"column:position"`
	Password  string    `gorm:"column:password;not null"`
	Avatar    []byte    `gorm:"column:avatar"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Staff) TableName() string {
	return "staffs"
}
