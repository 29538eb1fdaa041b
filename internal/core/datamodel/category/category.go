package category

// Lookup is a row of a name catalog such as case_categories. The table is
// chosen per query.
type Lookup struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}
