package shared

// Task types cho asynq
const (
	TypeRefreshCountries = "countries:refresh"
)

// Queue names
const (
	QueueDefault = "default"
	QueueRefresh = "refresh"
)

// RefreshCountriesPayload là payload của TypeRefreshCountries
// Trigger ghi nguồn kích hoạt: "scheduler", "cli", ...
type RefreshCountriesPayload struct {
	Trigger string `json:"trigger"`
}
