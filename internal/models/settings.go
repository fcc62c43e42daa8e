package models

// AppSettings is a singleton record of deployment-wide options.
type AppSettings struct {
	BaseModel
	BusinessName string `json:"business_name"`
	ContactEmail string `json:"contact_email"`
	Timezone     string `gorm:"default:America/Chicago" json:"timezone"`
}
