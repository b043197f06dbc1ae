package services

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hidromont/site-backend/database"
	"github.com/hidromont/site-backend/errs"
	"github.com/hidromont/site-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// OrderService stores contact-form inquiries and lets admins triage them.
type OrderService struct {
	db       database.Database
	notifier Notifier
	logger   zerolog.Logger
}

func NewOrderService(db database.Database, notifier Notifier) *OrderService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &OrderService{
		db:       db,
		notifier: notifier,
		logger:   log.With().Str("service", "orders").Logger(),
	}
}

type OrderInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Subject      string `json:"subject"`
	ConcreteType string `json:"concrete_type"`
	Message      string `json:"message"`
}

func (in *OrderInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.ConcreteType = strings.TrimSpace(in.ConcreteType)
	in.Message = strings.TrimSpace(in.Message)
}

func (in OrderInput) Validate() error {
	if in.Name == "" || in.Email == "" || in.Message == "" {
		return errs.NewInvalidInputError("Name, email and message are required")
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, is.EmailFormat),
	)
}

// CreateOrder stores the inquiry and notifies staff. A failed notification
// is logged; the order is kept.
func (s *OrderService) CreateOrder(ctx context.Context, in OrderInput) (*models.Order, error) {
	in.trim()
	if err := in.Validate(); err != nil {
		return nil, invalidInput(err)
	}

	order := &models.Order{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Subject:      in.Subject,
		ConcreteType: in.ConcreteType,
		Message:      in.Message,
		Status:       models.OrderStatusNew,
	}
	if err := s.db.OrderRepo().Add(ctx, order); err != nil {
		return nil, errs.NewDatabaseError("create", "order", err)
	}

	if err := s.notifier.NotifyOrder(ctx, *order); err != nil {
		s.logger.Error().Err(err).Uint("orderID", order.ID).Msg("order email notification failed")
	}
	s.logger.Info().Uint("orderID", order.ID).Msg("order received")
	return order, nil
}

// ListOrders returns orders newest first. "" and "all" match every order.
func (s *OrderService) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	status = strings.TrimSpace(status)
	if status == models.StatusAll {
		status = ""
	}
	if status != "" && !models.IsOrderStatus(status) {
		return nil, errs.NewInvalidInputError("Invalid status")
	}

	orders, err := s.db.OrderRepo().List(ctx, status)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "orders", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if !models.IsOrderStatus(status) {
		return nil, errs.NewInvalidInputError("Invalid status")
	}
	if _, err := s.db.OrderRepo().FindByID(ctx, id); err != nil {
		return nil, errs.NewDatabaseError("find", "order", err)
	}
	if err := s.db.OrderRepo().UpdateStatus(ctx, id, status); err != nil {
		return nil, errs.NewDatabaseError("update", "order", err)
	}

	order, err := s.db.OrderRepo().FindByID(ctx, id)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "order", err)
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.db.OrderRepo().Delete(ctx, id); err != nil {
		return errs.NewDatabaseError("delete", "order", err)
	}
	return nil
}
