package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftlog/timekeeper-go/internal/domain/shift"
	"github.com/shiftlog/timekeeper-go/internal/domain/user"
	"github.com/shiftlog/timekeeper-go/internal/pkg/database"
	"github.com/shiftlog/timekeeper-go/internal/repository/postgresql"
)

type ShiftServiceImpl struct {
	db *database.DB
	shift.ShiftRepository
	shift.AssignmentRepository
	user.UserRepository

	// Injectable transaction runner for tests; defaults to
	// postgresql.WithTransaction
	tx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (s *ShiftServiceImpl) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx != nil {
		return s.tx(ctx, fn)
	}
	return postgresql.WithTransaction(ctx, s.db, fn)
}

// Resolve implements shift.ShiftService. Resolution order: active assignment,
// then default shift. Shift edits take effect on the next resolution; records
// already derived keep the configuration they were computed with.
func (s *ShiftServiceImpl) Resolve(ctx context.Context, userID string) (shift.Config, error) {
	assignment, err := s.AssignmentRepository.GetActiveByUser(ctx, userID)
	if err != nil {
		return shift.Config{}, fmt.Errorf("failed to resolve assignment: %w", err)
	}

	if assignment != nil {
		assigned, err := s.ShiftRepository.GetByID(ctx, assignment.ShiftID)
		if err != nil {
			return shift.Config{}, fmt.Errorf("failed to load assigned shift: %w", err)
		}
		if assigned.IsActive {
			return assigned.Config(), nil
		}
		// Assigned shift was deactivated after assignment; fall through to
		// the default.
	}

	def, err := s.ShiftRepository.GetDefault(ctx)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.Config{}, shift.ErrNoShiftConfigured
		}
		return shift.Config{}, fmt.Errorf("failed to load default shift: %w", err)
	}

	return def.Config(), nil
}

// CreateShift implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	start, _ := time.Parse("15:04", req.StartTime)
	end, _ := time.Parse("15:04", req.EndTime)

	created, err := s.ShiftRepository.Create(ctx, shift.Shift{
		Name:                  req.Name,
		StartTime:             start,
		EndTime:               end,
		GracePeriodMinutes:    req.GracePeriodMinutes,
		BreakAllowanceMinutes: req.BreakAllowanceMinutes,
		IsDefault:             req.IsDefault,
		IsActive:              true,
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}

	return toShiftResponse(created), nil
}

// ListShifts implements shift.ShiftService.
func (s *ShiftServiceImpl) ListShifts(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.ShiftRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, toShiftResponse(sh))
	}
	return responses, nil
}

// AssignShift implements shift.ShiftService. Deactivating the prior
// assignment and creating the new one happen in one transaction so the
// at-most-one-active invariant holds through the swap.
func (s *ShiftServiceImpl) AssignShift(ctx context.Context, req shift.AssignShiftRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	if _, err := s.UserRepository.GetByID(ctx, req.UserID); err != nil {
		return shift.AssignmentResponse{}, err
	}

	target, err := s.ShiftRepository.GetByID(ctx, req.ShiftID)
	if err != nil {
		return shift.AssignmentResponse{}, err
	}
	if !target.IsActive {
		return shift.AssignmentResponse{}, shift.ErrShiftInactive
	}

	var assignment shift.Assignment
	err = s.runTx(ctx, func(txCtx context.Context) error {
		if _, err := s.AssignmentRepository.DeactivateByUser(txCtx, req.UserID); err != nil {
			return fmt.Errorf("failed to deactivate prior assignment: %w", err)
		}

		assignment, err = s.AssignmentRepository.Create(txCtx, shift.Assignment{
			UserID:   req.UserID,
			ShiftID:  req.ShiftID,
			IsActive: true,
		})
		if err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return shift.AssignmentResponse{}, err
	}

	return shift.AssignmentResponse{
		ID:        assignment.ID,
		UserID:    assignment.UserID,
		ShiftID:   assignment.ShiftID,
		ShiftName: &target.Name,
		IsActive:  assignment.IsActive,
	}, nil
}

// UnassignShift implements shift.ShiftService.
func (s *ShiftServiceImpl) UnassignShift(ctx context.Context, userID string) error {
	affected, err := s.AssignmentRepository.DeactivateByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to unassign shift: %w", err)
	}
	if affected == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}

func toShiftResponse(sh shift.Shift) shift.ShiftResponse {
	return shift.ShiftResponse{
		ID:                    sh.ID,
		Name:                  sh.Name,
		StartTime:             sh.StartTime.Format("15:04"),
		EndTime:               sh.EndTime.Format("15:04"),
		GracePeriodMinutes:    sh.GracePeriodMinutes,
		BreakAllowanceMinutes: sh.BreakAllowanceMinutes,
		IsDefault:             sh.IsDefault,
		IsActive:              sh.IsActive,
	}
}

func NewShiftService(
	db *database.DB,
	shiftRepo shift.ShiftRepository,
	assignmentRepo shift.AssignmentRepository,
	userRepo user.UserRepository,
) shift.ShiftService {
	return &ShiftServiceImpl{
		db:                   db,
		ShiftRepository:      shiftRepo,
		AssignmentRepository: assignmentRepo,
		UserRepository:       userRepo,
	}
}
