package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ifinlabs/wealth-reporting-backend/internal/api/handlers"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
	"github.com/ifinlabs/wealth-reporting-backend/internal/repository"
	"github.com/ifinlabs/wealth-reporting-backend/internal/service"
	"github.com/ifinlabs/wealth-reporting-backend/internal/testutil"
)

// TestClientHandler_List tests the admin account-selector listing.
func TestClientHandler_List(t *testing.T) {
	t.Run("returns the reduced listing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewClientHandler(service.NewClientService(repository.NewClientRepository(db)))
		client := testutil.NewClient().WithName("Asha Mehta").Build(t, db)
		testutil.NewClient().WithName("Rahul Verma").Build(t, db)

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/client", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var listing []model.ClientListing
		if err := json.NewDecoder(w.Body).Decode(&listing); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(listing) != 2 {
			t.Fatalf("Expected 2 clients, got %d", len(listing))
		}

		found := false
		for _, row := range listing {
			if row.ID == client.ID && row.ClientName == "Asha Mehta" && row.BrokerID == client.BrokerID {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected listing to contain %s, got %+v", client.ID, listing)
		}
	})

	t.Run("empty table yields an empty list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewClientHandler(service.NewClientService(repository.NewClientRepository(db)))

		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/api/client", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		var listing []model.ClientListing
		if err := json.NewDecoder(w.Body).Decode(&listing); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(listing) != 0 {
			t.Errorf("Expected empty listing, got %+v", listing)
		}
	})
}
