package postgres

import "fmt"

// TableNames holds environment-prefixed table names
type TableNames struct {
	Projects      string
	Sections      string
	Assets        string
	Opportunities string
	Applications  string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Projects:      fmt.Sprintf("%sprojects", prefix),
		Sections:      fmt.Sprintf("%ssections", prefix),
		Assets:        fmt.Sprintf("%sassets", prefix),
		Opportunities: fmt.Sprintf("%sfunding_opportunities", prefix),
		Applications:  fmt.Sprintf("%sapplication_packages", prefix),
	}
}
