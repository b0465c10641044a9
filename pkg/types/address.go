package types

import "strings"

// PostalAddress is the immutable address snapshot embedded in orders.
// It copies the saved address at checkout time so later edits to the
// address book never rewrite order history.
type PostalAddress struct {
	FullName     string  `json:"full_name"`
	Phone        string  `json:"phone"`
	Line1        string  `json:"line1"`
	Line2        *string `json:"line2,omitempty"`
	City         string  `json:"city"`
	Region       *string `json:"region,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	CountryCode  string  `json:"country_code"`
	Instructions *string `json:"instructions,omitempty"`
}

// Validate reports whether the snapshot carries the fields a courier needs.
func (a PostalAddress) Validate() error {
	switch {
	case strings.TrimSpace(a.FullName) == "":
		return errAddressField("full_name")
	case strings.TrimSpace(a.Phone) == "":
		return errAddressField("phone")
	case strings.TrimSpace(a.Line1) == "":
		return errAddressField("line1")
	case strings.TrimSpace(a.City) == "":
		return errAddressField("city")
	case len(strings.TrimSpace(a.CountryCode)) != 2:
		return errAddressField("country_code")
	}
	return nil
}

type errAddressField string

func (e errAddressField) Error() string {
	return "address: missing or invalid " + string(e)
}
