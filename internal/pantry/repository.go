package pantry

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	applog "pantry/internal/log"
	"pantry/models"
)

// EditableProps are the caller-supplied properties of a new FoodItem.
// A nil Edited means the item starts without history.
type EditableProps struct {
	FoodCode    int
	AmountLasts float64
	Edited      []models.EditEvent
}

// Repository reads and writes the food items of one application.
type Repository struct {
	db            *gorm.DB
	applicationID string
	now           func() time.Time
}

// Option customises a Repository.
type Option func(*Repository)

// WithClock replaces the clock used to date edit events.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository scopes every query to applicationID.
func NewRepository(db *gorm.DB, applicationID string, opts ...Option) *Repository {
	r := &Repository{
		db:            db,
		applicationID: applicationID,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ApplicationID returns the application the repository is scoped to.
func (r *Repository) ApplicationID() string {
	return r.applicationID
}

// Create persists a new food item and returns it with its store-assigned id.
func (r *Repository) Create(ctx context.Context, name string, props EditableProps) (models.FoodItem, error) {
	fail := func(err error) (models.FoodItem, error) {
		return models.FoodItem{}, &OpError{Op: OpCreate, Code: props.FoodCode, Err: err}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fail(ErrInvalidName)
	}
	if !finite(props.AmountLasts) {
		return fail(ErrInvalidAmount)
	}

	history := make([]models.EditEvent, 0, len(props.Edited))
	for _, event := range props.Edited {
		method, err := models.ParseEditMethod(string(event.Method))
		if err != nil {
			return fail(ErrInvalidMethod)
		}
		if !finite(event.Amount) || event.Amount <= 0 {
			return fail(ErrInvalidAmount)
		}
		if event.Date.IsZero() {
			event.Date = r.now()
		}
		history = append(history, models.EditEvent{
			Date:   event.Date.UTC(),
			Amount: event.Amount,
			Method: method,
		})
	}

	item := models.FoodItem{
		ApplicationID: r.applicationID,
		Name:          name,
		FoodCode:      props.FoodCode,
		AmountLasts:   props.AmountLasts,
		Edited:        history,
	}

	if r.db == nil {
		return fail(gorm.ErrInvalidDB)
	}
	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&item).Error
	}); err != nil {
		return fail(err)
	}

	applog.Debug(ctx, "food item created", "id", item.ID, "foodCode", item.FoodCode)
	return item, nil
}

// FindByCode returns the first item, in creation order, carrying code.
func (r *Repository) FindByCode(ctx context.Context, code int) (models.FoodItem, error) {
	if r.db == nil {
		return models.FoodItem{}, &OpError{Op: OpFindByCode, Code: code, Err: gorm.ErrInvalidDB}
	}
	item, err := r.findByCode(r.db.WithContext(ctx), code, true)
	if err != nil {
		return models.FoodItem{}, &OpError{Op: OpFindByCode, Code: code, Err: err}
	}
	return item, nil
}

// FindAll returns every item of the application in creation order.
func (r *Repository) FindAll(ctx context.Context) ([]models.FoodItem, error) {
	if r.db == nil {
		return nil, &OpError{Op: OpFindAll, Err: gorm.ErrInvalidDB}
	}

	var items []models.FoodItem
	err := r.db.WithContext(ctx).
		Preload("Edited", orderHistory).
		Where("application_id = ?", r.applicationID).
		Order("created_at asc").
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, &OpError{Op: OpFindAll, Err: err}
	}

	for idx := range items {
		items[idx].Edited = items[idx].History()
	}
	if items == nil {
		items = []models.FoodItem{}
	}
	return items, nil
}

// EditField applies edit to the item carrying code and returns the stored result.
func (r *Repository) EditField(ctx context.Context, code int, edit FieldEdit) (models.FoodItem, error) {
	return r.EditFields(ctx, code, edit)
}

// EditFields applies every edit to the item carrying code in one transaction.
// Either all edits are stored or none is.
func (r *Repository) EditFields(ctx context.Context, code int, edits ...FieldEdit) (models.FoodItem, error) {
	fail := func(err error) (models.FoodItem, error) {
		return models.FoodItem{}, &OpError{Op: OpEditField, Code: code, Err: err}
	}

	if len(edits) == 0 {
		return fail(ErrInvalidField)
	}
	for _, edit := range edits {
		if edit == nil {
			return fail(ErrInvalidField)
		}
		if err := edit.validate(); err != nil {
			return fail(err)
		}
	}
	if r.db == nil {
		return fail(gorm.ErrInvalidDB)
	}

	var updated models.FoodItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.findByCode(tx, code, false)
		if err != nil {
			return err
		}

		for _, edit := range edits {
			res := tx.Model(&models.FoodItem{}).
				Where("id = ?", item.ID).
				Update(edit.column(), edit.value())
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrNotFound
			}
		}

		updated, err = r.findByID(tx, item.ID)
		return err
	})
	if err != nil {
		return fail(err)
	}

	for _, edit := range edits {
		applog.Debug(ctx, "food item field updated", "foodCode", code, "field", edit.Field())
	}
	return updated, nil
}

// AdjustAmount increments or decrements amountLasts at the store level and
// appends the change to the item's history in the same transaction.
func (r *Repository) AdjustAmount(ctx context.Context, code int, method models.EditMethod, amount float64) (models.EditEvent, error) {
	fail := func(err error) (models.EditEvent, error) {
		return models.EditEvent{}, &OpError{Op: OpAdjustAmount, Code: code, Err: err}
	}

	var expr any
	switch method {
	case models.EditMethodIncrement:
		expr = gorm.Expr("amount_lasts + ?", amount)
	case models.EditMethodDecrement:
		expr = gorm.Expr("amount_lasts - ?", amount)
	default:
		return fail(ErrInvalidMethod)
	}
	if !finite(amount) || amount <= 0 {
		return fail(ErrInvalidAmount)
	}
	if r.db == nil {
		return fail(gorm.ErrInvalidDB)
	}

	event := models.EditEvent{
		Date:   r.now(),
		Amount: amount,
		Method: method,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.findByCode(tx, code, false)
		if err != nil {
			return err
		}

		res := tx.Model(&models.FoodItem{}).
			Where("id = ?", item.ID).
			Update("amount_lasts", expr)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		event.FoodItemID = item.ID
		return tx.Create(&event).Error
	})
	if err != nil {
		return fail(err)
	}

	applog.Debug(ctx, "food amount changed", "foodCode", code, "method", string(method), "amount", amount)
	return event, nil
}

// DeleteByCode permanently removes the item carrying code and its history.
func (r *Repository) DeleteByCode(ctx context.Context, code int) error {
	if r.db == nil {
		return &OpError{Op: OpDeleteByCode, Code: code, Err: gorm.ErrInvalidDB}
	}

	var name string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := r.findByCode(tx, code, false)
		if err != nil {
			return err
		}
		name = item.Name

		if err := tx.Where("food_item_id = ?", item.ID).Delete(&models.EditEvent{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", item.ID).Delete(&models.FoodItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return &OpError{Op: OpDeleteByCode, Code: code, Err: err}
	}

	applog.Debug(ctx, "food item deleted", "foodCode", code, "name", name)
	return nil
}

func (r *Repository) findByCode(tx *gorm.DB, code int, withHistory bool) (models.FoodItem, error) {
	query := tx.Where("application_id = ? AND food_code = ?", r.applicationID, code).
		Order("created_at asc").
		Order("id asc")
	if withHistory {
		query = query.Preload("Edited", orderHistory)
	}

	var item models.FoodItem
	if err := query.Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodItem{}, ErrNotFound
		}
		return models.FoodItem{}, err
	}
	item.Edited = item.History()
	return item, nil
}

func (r *Repository) findByID(tx *gorm.DB, id string) (models.FoodItem, error) {
	var item models.FoodItem
	err := tx.Preload("Edited", orderHistory).
		Where("application_id = ? AND id = ?", r.applicationID, id).
		Take(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.FoodItem{}, ErrNotFound
		}
		return models.FoodItem{}, err
	}
	item.Edited = item.History()
	return item, nil
}

func orderHistory(db *gorm.DB) *gorm.DB {
	return db.Order("edited_at asc").Order("id asc")
}
