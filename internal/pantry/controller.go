package pantry

import (
	"context"
	"errors"

	applog "pantry/internal/log"
	"pantry/models"
)

// Controller exposes the repository with every failure absorbed: callers get
// false, an empty slice or a nil event, and the cause goes to the log.
type Controller struct {
	repo *Repository
}

func NewController(repo *Repository) *Controller {
	return &Controller{repo: repo}
}

// Create reports whether the item was stored.
func (c *Controller) Create(ctx context.Context, name string, props EditableProps) bool {
	if _, err := c.repo.Create(ctx, name, props); err != nil {
		c.fail(ctx, MsgCreateFailed, err, "name", name, "foodCode", props.FoodCode)
		return false
	}
	return true
}

// FindByCode returns the item and true, or false when nothing matches or the
// lookup failed. A miss is not logged.
func (c *Controller) FindByCode(ctx context.Context, code int) (models.FoodItem, bool) {
	item, err := c.repo.FindByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			applog.Error(ctx, "food item lookup failed", "foodCode", code, "error", err)
		}
		return models.FoodItem{}, false
	}
	return item, true
}

// FindAll returns every item, or an empty slice on failure.
func (c *Controller) FindAll(ctx context.Context) []models.FoodItem {
	items, err := c.repo.FindAll(ctx)
	if err != nil {
		c.fail(ctx, MsgFindAllFailed, err)
		return []models.FoodItem{}
	}
	return items
}

// EditField reports whether the edit was stored.
func (c *Controller) EditField(ctx context.Context, code int, edit FieldEdit) bool {
	updated, err := c.repo.EditField(ctx, code, edit)
	if err != nil {
		c.fail(ctx, MsgEditFailed, err, "foodCode", code)
		return false
	}
	applog.Info(ctx, "food item updated", "foodCode", code, "field", edit.Field(), "name", updated.Name)
	return true
}

// AdjustAmount returns the recorded change, or nil on failure.
func (c *Controller) AdjustAmount(ctx context.Context, code int, method models.EditMethod, amount float64) *models.EditEvent {
	event, err := c.repo.AdjustAmount(ctx, code, method, amount)
	if err != nil {
		c.fail(ctx, MsgChangeAmountFailed, err, "foodCode", code, "method", string(method), "amount", amount)
		return nil
	}
	return &event
}

// DeleteByCode reports whether the item was removed.
func (c *Controller) DeleteByCode(ctx context.Context, code int) bool {
	if err := c.repo.DeleteByCode(ctx, code); err != nil {
		c.fail(ctx, MsgDeleteFailed, err, "foodCode", code)
		return false
	}
	return true
}

func (c *Controller) fail(ctx context.Context, msg string, err error, args ...any) {
	applog.Warn(ctx, msg, args...)
	applog.Error(ctx, "pantry operation failed", "reason", Reason(err).String(), "error", err)
}
