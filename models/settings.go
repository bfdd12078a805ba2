package models

// SettingsID is the id of the single settings record.
const SettingsID = "app"

// Settings holds application settings that are sensitive enough to be kept
// inside the encrypted store. Theme and auto-lock are duplicated as plain
// preferences so they can be applied before login.
type Settings struct {
	ID              string `json:"id"`
	Currency        string `json:"currency"`
	BaseCurrency    string `json:"baseCurrency"`
	Theme           string `json:"theme"`
	PINLength       int    `json:"pinLength"`
	AutoLockMinutes int    `json:"autoLockMinutes"`
	BudgetAlerts    bool   `json:"budgetAlerts"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func (s Settings) EntityID() string { return s.ID }

// Preferences are non-sensitive, unencrypted user preferences.
type Preferences struct {
	Theme           string
	AutoLockMinutes int
}
