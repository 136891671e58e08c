// internal/service/customer_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/storefront-backend/internal/errors"
	"github.com/unclebandit/storefront-backend/internal/model"
	"github.com/unclebandit/storefront-backend/internal/queue"
	"github.com/unclebandit/storefront-backend/internal/repository"
)

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Queue        queue.Queue // optional; nil disables change events
	Log          *zap.Logger
}

// GetCustomer returns the client projection of customer id.
func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*model.CustomerView, error) {
	customer, err := s.mustExist(ctx, id)
	if err != nil {
		return nil, err
	}
	view := customer.View()
	return &view, nil
}

// UpdateCustomer applies a partial update after confirming the customer exists.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, upd model.CustomerUpdate) (*model.CustomerView, error) {
	existing, err := s.mustExist(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Empty() {
		view := existing.View()
		return &view, nil
	}

	updated, err := s.CustomerRepo.Update(ctx, id, upd)
	if err != nil {
		s.logger().Error("failed to update customer", zap.Int("customer_id", id), zap.Error(err))
		return nil, err
	}

	s.publish(queue.NewCustomerEvent(queue.TopicCustomerUpdated, updated.ID, updated.Email))

	view := updated.View()
	return &view, nil
}

// DeleteCustomer removes customer id after confirming it exists.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	if _, err := s.mustExist(ctx, id); err != nil {
		return err
	}

	if err := s.CustomerRepo.Delete(ctx, id); err != nil {
		s.logger().Error("failed to delete customer", zap.Int("customer_id", id), zap.Error(err))
		return err
	}

	s.publish(queue.NewCustomerEvent(queue.TopicCustomerDeleted, id, ""))
	return nil
}

func (s *CustomerService) mustExist(ctx context.Context, id int) (*model.Customer, error) {
	customer, err := s.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger().Error("failed to fetch customer", zap.Int("customer_id", id), zap.Error(err))
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return customer, nil
}

// publish never fails the request: the change is already committed.
func (s *CustomerService) publish(ev queue.CustomerEvent) {
	if s.Queue == nil {
		return
	}
	if err := s.Queue.Publish(ev.EventType, ev); err != nil {
		s.logger().Warn("failed to enqueue customer event",
			zap.String("event_type", ev.EventType),
			zap.Int("customer_id", ev.CustomerID),
			zap.Error(err),
		)
	}
}

func (s *CustomerService) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
