// Package orders implements public order intake and the admin-only order
// management operations.
package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/storage"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Service manages orders.
type Service struct {
	store storage.OrderStore
	log   *logger.Logger
}

// New constructs an order service.
func New(store storage.OrderStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("orders")
	}
	return &Service{store: store, log: log}
}

// Create places an order from a public checkout. Items are denormalized
// snapshots of products; the order keeps them as submitted. Status always
// starts at pending regardless of the input.
func (s *Service) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	if err := validate(o); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderPending

	created, err := s.store.CreateOrder(ctx, o)
	if err != nil {
		return domain.Order{}, apperrors.Internal("Error creating order", err)
	}
	s.log.Infof("order %s created for %s", created.ID, created.CustomerName)
	return created, nil
}

// List returns all orders, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, apperrors.Internal("Error fetching orders", err)
	}
	return orders, nil
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Order{}, apperrors.NotFound("Order not found")
		}
		return domain.Order{}, apperrors.Internal("Error fetching order", err)
	}
	return o, nil
}

// UpdateStatus moves an order to a new status. Any status may move to any
// other; only membership in the enumerated set is checked.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return domain.Order{}, apperrors.ValidationFailed("Invalid status value")
	}

	o, err := s.store.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Order{}, apperrors.NotFound("Order not found")
		}
		return domain.Order{}, apperrors.Internal("Error updating order status", err)
	}
	s.log.Infof("order %s moved to %s", id, status)
	return o, nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.NotFound("Order not found")
		}
		return apperrors.Internal("Error deleting order", err)
	}
	s.log.Infof("order %s deleted", id)
	return nil
}

func validate(o domain.Order) error {
	if len(o.Items) == 0 {
		return apperrors.ValidationFailed("Order must have at least one item")
	}
	for i, item := range o.Items {
		if err := validateItem(i, item); err != nil {
			return err
		}
	}

	switch {
	case o.Total < 0:
		return apperrors.ValidationFailed("Total cannot be negative")
	case o.CustomerName == "":
		return apperrors.ValidationFailed("Customer name is required")
	case o.Email == "":
		return apperrors.ValidationFailed("Email is required")
	case !emailPattern.MatchString(o.Email):
		return apperrors.ValidationFailed("Please provide a valid email")
	case o.ContactNumber == "":
		return apperrors.ValidationFailed("Contact number is required")
	case o.Address == "":
		return apperrors.ValidationFailed("Address is required")
	}
	return nil
}

func validateItem(i int, item domain.CartItem) error {
	fail := func(msg string) error {
		return apperrors.ValidationFailed(fmt.Sprintf("items[%d]: %s", i, msg))
	}
	switch {
	case item.ID == "":
		return fail("id is required")
	case item.Name == "":
		return fail("name is required")
	case item.Category == "":
		return fail("category is required")
	case item.Price < 0:
		return fail("price cannot be negative")
	case !item.Images.Valid():
		return fail("image must be a URL string or array of URL strings")
	case item.Description == "":
		return fail("description is required")
	case item.Quantity < 1:
		return fail("quantity must be at least 1")
	}
	return nil
}
