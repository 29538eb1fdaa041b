package auditlog

import "time"

type Log struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;index"`
	Action        string    `gorm:"column:action;not null"`
	AffectedTable string    `gorm:"column:affected_table;not null"`
	RecordID      int64     `gorm:"column:record_id"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Log) TableName() string {
	return "logs"
}
