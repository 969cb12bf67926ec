package entity

// Lead is a normalized business record extracted from a maps search.
type Lead struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

// CSVHeader lists the column order used when leads are exported as CSV.
var CSVHeader = []string{"name", "address", "phone", "website", "email"}

// CSVRecord returns the lead's fields in CSVHeader order.
func (l Lead) CSVRecord() []string {
	return []string{l.Name, l.Address, l.Phone, l.Website, l.Email}
}
