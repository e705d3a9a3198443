package models

// StartingCashBalance is the paper-trading bankroll every new user
// begins with, and the amount a balance reset restores.
const StartingCashBalance = 10000.0

// User represents the user model in the database. CashBalance is only
// ever mutated inside a trade transaction or by an explicit reset.
type User struct {
	Base
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CashBalance float64   `gorm:"not null;default:10000" json:"cash_balance"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	Holdings    []Holding `gorm:"foreignKey:UserID" json:"holdings,omitempty"`
	Alerts      []Alert   `gorm:"foreignKey:UserID" json:"alerts,omitempty"`
}
