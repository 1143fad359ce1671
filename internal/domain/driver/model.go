package driver

// Driver is a race entrant as reported by the race-data provider. Drivers are
// identified by their car number throughout predictions and results.
type Driver struct {
	Number      int
	Acronym     string
	FullName    string
	TeamName    string
	TeamColour  string
	HeadshotURL string
	CountryCode string
}
