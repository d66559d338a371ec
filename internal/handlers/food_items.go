package handlers

import (
	"encoding/json"
	"net/http"

	"pantry/internal/events"
	applog "pantry/internal/log"
	"pantry/internal/pantry"
	"pantry/models"
)

type createFoodItemRequest struct {
	Name        string             `json:"name"`
	FoodCode    *int               `json:"foodCode"`
	AmountLasts float64            `json:"amountLasts"`
	Edited      []models.EditEvent `json:"edited"`
}

type editFoodItemRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

type adjustAmountRequest struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// ListFoodItems returns every food item of the application.
func ListFoodItems(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	items, err := repository.FindAll(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// CreateFoodItem stores a new food item.
func CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	var req createFoodItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FoodCode == nil {
		writeJSONError(w, http.StatusBadRequest, "foodCode is required")
		return
	}

	item, err := repository.Create(r.Context(), req.Name, pantry.EditableProps{
		FoodCode:    *req.FoodCode,
		AmountLasts: req.AmountLasts,
		Edited:      req.Edited,
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	applog.Info(r.Context(), "food item created", "id", item.ID, "foodCode", item.FoodCode, "name", item.Name)
	writeJSON(w, http.StatusCreated, item)
}

// ShowFoodItem returns the first food item carrying the code.
func ShowFoodItem(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	code, ok := foodCodeParam(w, r)
	if !ok {
		return
	}
	item, err := repository.FindByCode(r.Context(), code)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// EditFoodItem changes one field of a food item.
func EditFoodItem(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	code, ok := foodCodeParam(w, r)
	if !ok {
		return
	}
	var req editFoodItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	edit, err := pantry.DecodeFieldEdit(req.Field, req.Value)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	item, err := repository.EditField(r.Context(), code, edit)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	applog.Info(r.Context(), "food item updated", "foodCode", code, "field", edit.Field())
	writeJSON(w, http.StatusOK, item)
}

// AdjustFoodAmount increments or decrements amountLasts and publishes the change.
func AdjustFoodAmount(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	code, ok := foodCodeParam(w, r)
	if !ok {
		return
	}
	var req adjustAmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	method, err := models.ParseEditMethod(req.Method)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, pantry.ErrInvalidMethod.Error())
		return
	}
	event, err := repository.AdjustAmount(r.Context(), code, method, req.Amount)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := publisher.Publish(r.Context(), events.NewAmountChanged(code, event)); err != nil {
		applog.Warn(r.Context(), "amount change not published", "foodCode", code, "error", err)
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteFoodItem permanently removes a food item and its history.
func DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	if !storeAvailable(w, r) {
		return
	}
	code, ok := foodCodeParam(w, r)
	if !ok {
		return
	}
	if err := repository.DeleteByCode(r.Context(), code); err != nil {
		writeStoreError(w, r, err)
		return
	}
	applog.Info(r.Context(), "food item deleted", "foodCode", code)
	w.WriteHeader(http.StatusNoContent)
}
