package billing

import (
	"time"

	"github.com/clocko-app/clocko/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service. All
// subscription writes match on the Stripe customer reference, never on the
// internal user id; the reconciler has no other knowledge of ownership.
type Repository interface {
	GetUserByID(id uint) (*models.User, error)
	SetCustomerID(userID uint, customerID string) error
	ApplySubscriptionState(customerID, status string, subscriptionID *string, trialEndsAt *time.Time) error
	ClearSubscription(customerID string) error
	SetStatusByCustomer(customerID, status string) error
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *gormRepository) SetCustomerID(userID uint, customerID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}

func (r *gormRepository) ApplySubscriptionState(customerID, status string, subscriptionID *string, trialEndsAt *time.Time) error {
	return r.db.Model(&models.User{}).Where("stripe_customer_id = ?", customerID).
		Updates(map[string]interface{}{
			"subscription_status": status,
			"subscription_id":     subscriptionID,
			"trial_ends_at":       trialEndsAt,
		}).Error
}

func (r *gormRepository) ClearSubscription(customerID string) error {
	return r.db.Model(&models.User{}).Where("stripe_customer_id = ?", customerID).
		Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionStatusInactive,
			"subscription_id":     nil,
		}).Error
}

func (r *gormRepository) SetStatusByCustomer(customerID, status string) error {
	return r.db.Model(&models.User{}).Where("stripe_customer_id = ?", customerID).
		Update("subscription_status", status).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := r.db.Where("provider_event_id = ?", event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
