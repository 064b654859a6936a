package models

// CannedCategory groups pre-written reply templates. Categories and
// their responses are displayed as-is on the dashboard.
type CannedCategory struct {
	ID     int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title  string `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Weight int    `gorm:"not null;default:0;column:weight" json:"weight"`

	Responses []CannedResponse `gorm:"foreignKey:CategoryID;references:ID" json:"responses"`
}

// TableName specifies the table name for CannedCategory
func (CannedCategory) TableName() string {
	return "cc_canned_categories"
}

// CannedResponse is a single reply template within a category.
type CannedResponse struct {
	ID         int64  `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	CategoryID int64  `gorm:"not null;index;column:category_id" json:"-"`
	Title      string `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Response   string `gorm:"type:text;not null;column:response" json:"response"`
	Weight     int    `gorm:"not null;default:0;column:weight" json:"weight"`
}

// TableName specifies the table name for CannedResponse
func (CannedResponse) TableName() string {
	return "cc_canned_responses"
}
