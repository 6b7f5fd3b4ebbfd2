package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/pretty-picked/boutique-api/internal/domain"
	apperrors "github.com/pretty-picked/boutique-api/internal/errors"
	"github.com/pretty-picked/boutique-api/internal/storage/memory"
	"github.com/pretty-picked/boutique-api/pkg/logger"
)

func newTestService() *Service {
	return New(memory.New(), logger.NewDefault("test"))
}

func validOrder() domain.Order {
	return domain.Order{
		Items: []domain.CartItem{
			{
				ID:          "prod-1",
				Name:        "Rose Gold Band",
				Category:    "Rings",
				Price:       49.99,
				Images:      domain.ImageList{"/band.jpg"},
				Description: "A delicate band.",
				Quantity:    2,
			},
		},
		Total:         99.98,
		CustomerName:  "Ada Smith",
		Email:         "ada@example.com",
		ContactNumber: "07000000000",
		Address:       "1 High Street",
	}
}

func serviceErr(t *testing.T, err error) *apperrors.ServiceError {
	t.Helper()
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected a service error, got %v", err)
	}
	return svcErr
}

func TestCreateStartsPending(t *testing.T) {
	svc := newTestService()

	o := validOrder()
	// Client-supplied status is ignored.
	o.Status = domain.OrderCompleted

	created, err := svc.Create(context.Background(), o)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.Status != domain.OrderPending {
		t.Fatalf("expected pending status, got %s", created.Status)
	}
	if created.ID == "" {
		t.Fatal("expected assigned id")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*domain.Order)
		message string
	}{
		{"no items", func(o *domain.Order) { o.Items = nil }, "Order must have at least one item"},
		{"item missing id", func(o *domain.Order) { o.Items[0].ID = "" }, "items[0]: id is required"},
		{"item zero quantity", func(o *domain.Order) { o.Items[0].Quantity = 0 }, "items[0]: quantity must be at least 1"},
		{"item no images", func(o *domain.Order) { o.Items[0].Images = nil }, "items[0]: image must be a URL string or array of URL strings"},
		{"negative total", func(o *domain.Order) { o.Total = -1 }, "Total cannot be negative"},
		{"missing customer", func(o *domain.Order) { o.CustomerName = "" }, "Customer name is required"},
		{"missing email", func(o *domain.Order) { o.Email = "" }, "Email is required"},
		{"bad email", func(o *domain.Order) { o.Email = "not-an-email" }, "Please provide a valid email"},
		{"missing contact", func(o *domain.Order) { o.ContactNumber = "" }, "Contact number is required"},
		{"missing address", func(o *domain.Order) { o.Address = "" }, "Address is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := validOrder()
			tc.mutate(&o)
			_, err := svc.Create(ctx, o)
			got := serviceErr(t, err)
			if got.Code != apperrors.CodeValidationFailed {
				t.Fatalf("unexpected code %s", got.Code)
			}
			if got.Message != tc.message {
				t.Fatalf("unexpected message %q", got.Message)
			}
		})
	}
}

func TestEmailFormats(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	valid := []string{"ada@example.com", "ada.smith@mail.example.org", "a-b@ex-ample.co"}
	for _, email := range valid {
		o := validOrder()
		o.Email = email
		if _, err := svc.Create(ctx, o); err != nil {
			t.Fatalf("email %q rejected: %v", email, err)
		}
	}

	invalid := []string{"@example.com", "ada@", "ada example@example.com", "ada@example"}
	for _, email := range invalid {
		o := validOrder()
		o.Email = email
		if _, err := svc.Create(ctx, o); err == nil {
			t.Fatalf("email %q accepted", email)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validOrder())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, created.ID, domain.OrderProcessing)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.OrderProcessing {
		t.Fatalf("unexpected status %s", updated.Status)
	}

	// Any enumerated transition is allowed, including backwards.
	if _, err := svc.UpdateStatus(ctx, created.ID, domain.OrderPending); err != nil {
		t.Fatalf("backwards transition rejected: %v", err)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validOrder())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, created.ID, "shipped")
	got := serviceErr(t, err)
	if got.Code != apperrors.CodeValidationFailed || got.Message != "Invalid status value" {
		t.Fatalf("unexpected error %v", got)
	}
}

func TestGetAndDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, validOrder())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.CustomerName != "Ada Smith" || len(got.Items) != 1 {
		t.Fatalf("unexpected order %+v", got)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	if got := serviceErr(t, err); got.Code != apperrors.CodeNotFound {
		t.Fatalf("unexpected code %s", got.Code)
	}
}
