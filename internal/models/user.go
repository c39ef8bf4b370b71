package models

// User is a forecaster identified by username. Users are created lazily on
// their first submitted prediction and never deleted.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Username    string `gorm:"size:255;uniqueIndex;not null" json:"username"`
	TotalPoints int64  `gorm:"not null;default:0" json:"total_points"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
