package model

import "encoding/json"

// Installation is a customer site subject to periodic safety testing.
// ID is user-assigned and immutable once created.
type Installation struct {
	ID               string `json:"id"`
	Address          string `json:"address"`
	CustomerName     string `json:"customer_name"`
	InstallationDate *Time  `json:"installation_date"`
	LastInspection   *Time  `json:"last_inspection"`
}

// InstallationCreate is the payload for POST /installations.
type InstallationCreate struct {
	ID               string `json:"id"`
	Address          string `json:"address"`
	CustomerName     string `json:"customer_name"`
	InstallationDate *Time  `json:"installation_date,omitempty"`
	LastInspection   *Time  `json:"last_inspection,omitempty"`
}

// InstallationDraft is the editable projection of an Installation.
// It deliberately has no ID.
type InstallationDraft struct {
	Address          string
	CustomerName     string
	InstallationDate *Time
	LastInspection   *Time
}

// Draft returns the editable fields of i.
func (i Installation) Draft() InstallationDraft {
	return InstallationDraft{
		Address:          i.Address,
		CustomerName:     i.CustomerName,
		InstallationDate: i.InstallationDate,
		LastInspection:   i.LastInspection,
	}
}

// InstallationUpdate is a partial update for PUT /installations/{id}.
type InstallationUpdate struct {
	Address          Opt[string]
	CustomerName     Opt[string]
	InstallationDate Opt[*Time]
	LastInspection   Opt[*Time]
}

// IsEmpty reports whether the update carries no fields.
func (u InstallationUpdate) IsEmpty() bool {
	return !u.Address.Set && !u.CustomerName.Set &&
		!u.InstallationDate.Set && !u.LastInspection.Set
}

// MarshalJSON encodes only the fields that are set.
func (u InstallationUpdate) MarshalJSON() ([]byte, error) {
	p := payload{}
	putOpt(p, "address", u.Address)
	putOpt(p, "customer_name", u.CustomerName)
	putTime(p, "installation_date", u.InstallationDate)
	putTime(p, "last_inspection", u.LastInspection)
	return json.Marshal(p)
}
