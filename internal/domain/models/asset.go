package models

// AssetType classifies an indexed file by its extension
type AssetType string

const (
	AssetPhoto           AssetType = "Photo"
	AssetPoster          AssetType = "Poster"
	AssetMenu            AssetType = "Menu"
	AssetAudio           AssetType = "Audio"
	AssetVerificationDoc AssetType = "VerificationDoc"
)

// RightsStatus tracks clearance of an asset for publication
type RightsStatus string

const (
	RightsUnknown    RightsStatus = "Unknown"
	RightsRequested  RightsStatus = "Requested"
	RightsCleared    RightsStatus = "Cleared"
	RightsRestricted RightsStatus = "Restricted"
)

// Valid reports whether s is a known rights status
func (s RightsStatus) Valid() bool {
	switch s {
	case RightsUnknown, RightsRequested, RightsCleared, RightsRestricted:
		return true
	}
	return false
}

// UsageScope is the medium an asset is cleared for
type UsageScope string

const (
	UsagePrint   UsageScope = "Print"
	UsageDigital UsageScope = "Digital"
	UsageBoth    UsageScope = "Both"
)

// Asset is an indexed file under a project's directory tree.
// (project_id, file_path) is unique at the storage level, so concurrent
// scans of overlapping paths cannot double-index a file.
type Asset struct {
	ID              string       `json:"id"`
	ProjectID       string       `json:"project_id"`
	Type            AssetType    `json:"type"`
	FilePath        string       `json:"file_path"`
	RightsStatus    RightsStatus `json:"rights_status"`
	CreditLine      *string      `json:"credit_line"`
	UsageScope      UsageScope   `json:"usage_scope"`
	SelectedForBook bool         `json:"is_selected_for_book"`
}
