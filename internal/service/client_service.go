package service

import (
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
)

// ClientService exposes CRM lookups to the API layer.
type ClientService struct {
	clientRepo *repository.ClientRepository
}

// NewClientService creates a new ClientService with the provided repository dependencies.
func NewClientService(clientRepo *repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ListClients returns the reduced listing the admin account selector
// renders.
func (s *ClientService) ListClients() ([]model.ClientListing, error) {
	return s.clientRepo.ListClients()
}

// GetClient retrieves one full CRM record.
func (s *ClientService) GetClient(clientID string) (model.Client, error) {
	return s.clientRepo.GetClient(clientID)
}
