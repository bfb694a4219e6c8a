package model

import "time"

// Client represents a CRM record for one wealth-management client. BrokerID
// is the external identifier carried by every CSV import; ID is the internal
// key every other table references.
type Client struct {
	ID              string    `json:"id"`
	BrokerID        string    `json:"brokerId"`
	ClientName      string    `json:"clientName"`
	PhoneNo         string    `json:"phoneNo,omitempty"`
	Email           string    `json:"email,omitempty"`
	Address         string    `json:"address,omitempty"`
	AccountOpenDate time.Time `json:"accountOpenDate"`
	AccountType     string    `json:"accountType,omitempty"`
	AccountStatus   string    `json:"accountStatus,omitempty"`
}

// ClientListing is the reduced shape returned by the admin account selector.
type ClientListing struct {
	ID         string `json:"id"`
	BrokerID   string `json:"brokerId"`
	ClientName string `json:"clientName"`
}
