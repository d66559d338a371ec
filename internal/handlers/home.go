package handlers

import (
	"net/http"

	"pantry/models"
)

type homeResponse struct {
	ApplicationID string            `json:"applicationId"`
	Count         int               `json:"count"`
	Items         []models.FoodItem `json:"items"`
}

// Home renders the pantry overview. Store failures degrade to an empty list.
func Home(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	items := controller.FindAll(r.Context())
	writeJSON(w, http.StatusOK, homeResponse{
		ApplicationID: repository.ApplicationID(),
		Count:         len(items),
		Items:         items,
	})
}
