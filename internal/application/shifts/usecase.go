// Package shifts implementa los turnos de caja: apertura, cierre con arqueo,
// conciliación y transferencia. Ciclo de vida: open → closed → reconciled.
// El efectivo esperado nunca lo declara el operador: se deriva de los pagos
// registrados durante el turno.
package shifts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmoralesdev/punto-venta-api/internal/application/audit"
	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
)

// UseCase motor de turnos de caja.
type UseCase struct {
	txRunner     TxRunner
	shiftRepo    repository.CashShiftRepository
	registerRepo repository.CashRegisterRepository
	userRepo     repository.UserRepository
	authorizer   Authorizer
	auditor      Auditor
}

// NewUseCase construye el motor de turnos.
func NewUseCase(
	txRunner TxRunner,
	shiftRepo repository.CashShiftRepository,
	registerRepo repository.CashRegisterRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	auditor Auditor,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		shiftRepo:    shiftRepo,
		registerRepo: registerRepo,
		userRepo:     userRepo,
		authorizer:   authorizer,
		auditor:      auditor,
	}
}

// OpenShift abre un turno sobre una caja física. Requiere shifts.open y que el
// usuario NO tenga otro turno abierto (ErrShiftAlreadyOpen); el fondo inicial
// no puede ser negativo.
func (uc *UseCase) OpenShift(ctx context.Context, businessID, userID string, in dto.OpenShiftRequest) (*dto.ShiftResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermShiftsOpen, businessID); err != nil {
		return nil, err
	}
	if in.OpeningCash.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("el fondo inicial no puede ser negativo")
	}

	register, err := uc.registerRepo.GetByID(in.RegisterID)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, domain.ErrNotFound
	}
	if register.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	open, err := uc.shiftRepo.FindOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrShiftAlreadyOpen
	}

	shift := &entity.CashShift{
		ID:          uuid.New().String(),
		BusinessID:  businessID,
		RegisterID:  in.RegisterID,
		UserID:      userID,
		Status:      entity.ShiftOpen,
		OpeningCash: in.OpeningCash,
		OpenedAt:    time.Now(),
	}
	if err := uc.shiftRepo.Create(shift); err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "shifts.open",
		ResourceType: "cash_shift",
		ResourceID:   shift.ID,
		Details:      "fondo inicial " + in.OpeningCash.String(),
	})
	return toShiftResponse(shift), nil
}

// CloseShift cierra el turno del propio operador con su conteo de efectivo.
// Dentro de la transacción: ExpectedCash = fondo inicial + ventas en efectivo
// − devoluciones en efectivo; Difference = ActualCash − ExpectedCash (negativa
// = faltante). El cierre nunca rechaza por diferencia: la registra.
func (uc *UseCase) CloseShift(ctx context.Context, businessID, userID, shiftID string, in dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermShiftsClose, businessID); err != nil {
		return nil, err
	}
	return uc.closeShift(ctx, businessID, userID, shiftID, in, false)
}

// ForceCloseShift cierra el turno abierto de OTRO operador (abandono de caja,
// fin de jornada). Exige reports.view además de shifts.close.
func (uc *UseCase) ForceCloseShift(ctx context.Context, businessID, userID, shiftID string, in dto.CloseShiftRequest) (*dto.ShiftResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermShiftsClose, businessID); err != nil {
		return nil, err
	}
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermReportsView, businessID); err != nil {
		return nil, err
	}
	return uc.closeShift(ctx, businessID, userID, shiftID, in, true)
}

func (uc *UseCase) closeShift(ctx context.Context, businessID, userID, shiftID string, in dto.CloseShiftRequest, force bool) (*dto.ShiftResponse, error) {
	if in.ActualCash.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("el efectivo contado no puede ser negativo")
	}

	now := time.Now()
	var closed *entity.CashShift

	err := uc.txRunner.RunShift(ctx, func(
		shiftRepo repository.CashShiftRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		shift, err := shiftRepo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.BusinessID != businessID {
			return domain.ErrForbidden
		}
		if shift.Status != entity.ShiftOpen {
			return domain.ErrInvalidState
		}
		if !force && shift.UserID != userID {
			return domain.ErrForbidden
		}

		totals, err := paymentRepo.CashTotalsByShift(shift.ID)
		if err != nil {
			return err
		}

		shift.Status = entity.ShiftClosed
		shift.ExpectedCash = shift.OpeningCash.Add(totals.CashSales).Sub(totals.CashRefunds)
		shift.ActualCash = in.ActualCash
		shift.Difference = in.ActualCash.Sub(shift.ExpectedCash)
		shift.Notes = in.Notes
		shift.ClosedAt = &now
		shift.ClosedBy = userID
		closed = shift
		return shiftRepo.Update(shift)
	})
	if err != nil {
		return nil, err
	}

	action := "shifts.close"
	if force {
		action = "shifts.force_close"
	}
	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       action,
		ResourceType: "cash_shift",
		ResourceID:   shiftID,
		Details:      "esperado " + closed.ExpectedCash.String() + ", contado " + closed.ActualCash.String() + ", diferencia " + closed.Difference.String(),
	})
	return toShiftResponse(closed), nil
}

// ReconcileShift marca un turno cerrado como conciliado por un supervisor
// (reports.view). Idempotente: conciliar dos veces devuelve el turno tal cual
// sin modificar quién ni cuándo concilió.
func (uc *UseCase) ReconcileShift(ctx context.Context, businessID, userID, shiftID string) (*dto.ShiftResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermReportsView, businessID); err != nil {
		return nil, err
	}

	now := time.Now()
	var reconciled *entity.CashShift
	alreadyDone := false

	err := uc.txRunner.RunShift(ctx, func(
		shiftRepo repository.CashShiftRepository,
		_ repository.PaymentRepository,
	) error {
		shift, err := shiftRepo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.BusinessID != businessID {
			return domain.ErrForbidden
		}
		switch shift.Status {
		case entity.ShiftReconciled:
			alreadyDone = true
			reconciled = shift
			return nil
		case entity.ShiftClosed:
			shift.Status = entity.ShiftReconciled
			shift.ReconciledAt = &now
			shift.ReconciledBy = userID
			reconciled = shift
			return shiftRepo.Update(shift)
		default:
			return domain.ErrInvalidState
		}
	})
	if err != nil {
		return nil, err
	}

	if !alreadyDone {
		uc.auditor.Record(ctx, audit.Entry{
			BusinessID:   businessID,
			UserID:       userID,
			Action:       "shifts.reconcile",
			ResourceType: "cash_shift",
			ResourceID:   shiftID,
			Details:      "diferencia " + reconciled.Difference.String(),
		})
	}
	return toShiftResponse(reconciled), nil
}

// TransferShift reasigna un turno abierto a otro cajero (relevo sin cerrar
// caja). Requiere users.update; el destinatario debe pertenecer al negocio,
// estar activo y no tener un turno abierto propio.
func (uc *UseCase) TransferShift(ctx context.Context, businessID, userID, shiftID string, in dto.TransferShiftRequest) (*dto.ShiftResponse, error) {
	if err := uc.authorizer.RequirePermission(ctx, userID, entity.PermUsersUpdate, businessID); err != nil {
		return nil, err
	}

	newUser, err := uc.userRepo.GetByID(in.NewUserID)
	if err != nil {
		return nil, err
	}
	if newUser == nil {
		return nil, domain.ErrNotFound
	}
	if newUser.BusinessID != businessID || !newUser.IsActive {
		return nil, domain.ErrForbidden
	}

	var transferred *entity.CashShift
	err = uc.txRunner.RunShift(ctx, func(
		shiftRepo repository.CashShiftRepository,
		_ repository.PaymentRepository,
	) error {
		shift, err := shiftRepo.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		if shift.BusinessID != businessID {
			return domain.ErrForbidden
		}
		if shift.Status != entity.ShiftOpen {
			return domain.ErrInvalidState
		}
		open, err := shiftRepo.FindOpenByUser(in.NewUserID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrShiftAlreadyOpen
		}
		shift.UserID = in.NewUserID
		transferred = shift
		return shiftRepo.Update(shift)
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(ctx, audit.Entry{
		BusinessID:   businessID,
		UserID:       userID,
		Action:       "shifts.transfer",
		ResourceType: "cash_shift",
		ResourceID:   shiftID,
		NewValue:     in.NewUserID,
	})
	return toShiftResponse(transferred), nil
}

// GetShift obtiene un turno por id.
func (uc *UseCase) GetShift(ctx context.Context, businessID, shiftID string) (*dto.ShiftResponse, error) {
	shift, err := uc.shiftRepo.GetByID(shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNotFound
	}
	if shift.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return toShiftResponse(shift), nil
}

// CurrentShift devuelve el turno abierto del usuario, o ErrNoOpenShift.
func (uc *UseCase) CurrentShift(ctx context.Context, businessID, userID string) (*dto.ShiftResponse, error) {
	shift, err := uc.shiftRepo.FindOpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNoOpenShift
	}
	if shift.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return toShiftResponse(shift), nil
}

// ListShifts lista los turnos del negocio, más recientes primero.
func (uc *UseCase) ListShifts(ctx context.Context, businessID string, limit, offset int) ([]*dto.ShiftResponse, error) {
	shifts, err := uc.shiftRepo.ListByBusiness(businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, toShiftResponse(s))
	}
	return out, nil
}

func toShiftResponse(s *entity.CashShift) *dto.ShiftResponse {
	return &dto.ShiftResponse{
		ID:           s.ID,
		BusinessID:   s.BusinessID,
		RegisterID:   s.RegisterID,
		UserID:       s.UserID,
		Status:       s.Status,
		OpeningCash:  s.OpeningCash,
		ExpectedCash: s.ExpectedCash,
		ActualCash:   s.ActualCash,
		Difference:   s.Difference,
		OpenedAt:     s.OpenedAt,
		ClosedAt:     s.ClosedAt,
		ReconciledAt: s.ReconciledAt,
		ReconciledBy: s.ReconciledBy,
	}
}
