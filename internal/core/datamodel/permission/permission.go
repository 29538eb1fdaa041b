package permission

// Table is a row of the resource catalog. Its name is the authorization key.
type Table struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (Table) TableName() string {
	return "tables"
}

type Grant struct {
	ID      int64 `gorm:"primaryKey"`
	UserID  int64 `gorm:"column:user_id;not null;uniqueIndex:idx_perms_user_table"`
	TableID int64 `gorm:"column:table_id;not null;uniqueIndex:idx_perms_user_table"`
}

func (Grant) TableName() string {
	return "perms"
}
