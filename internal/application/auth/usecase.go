// Package auth implementa registro, login y el PIN de re-autorización en caja.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmoralesdev/punto-venta-api/internal/application/dto"
	"github.com/jmoralesdev/punto-venta-api/internal/domain"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/entity"
	"github.com/jmoralesdev/punto-venta-api/internal/domain/repository"
	"github.com/jmoralesdev/punto-venta-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticación y PIN.
type UseCase struct {
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	jwtCfg       JWTConfig
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, businessRepo repository.BusinessRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, businessRepo: businessRepo, jwtCfg: jwtCfg}
}

// RegisterBusiness crea el negocio y su usuario propietario en un solo paso
// (onboarding). Devuelve ErrDuplicate si el tax id ya está registrado.
func (uc *UseCase) RegisterBusiness(ctx context.Context, in dto.RegisterBusinessRequest) (*dto.RegisterBusinessResponse, error) {
	var violations []string
	if in.Name == "" {
		violations = append(violations, "el nombre del negocio es obligatorio")
	}
	if in.OwnerEmail == "" {
		violations = append(violations, "el email del propietario es obligatorio")
	}
	if len(in.Password) < 8 {
		violations = append(violations, "la contraseña debe tener al menos 8 caracteres")
	}
	if len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if in.TaxID != "" {
		existing, _ := uc.businessRepo.GetByTaxID(in.TaxID)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	now := time.Now()
	business := &entity.Business{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.businessRepo.Create(business); err != nil {
		return nil, err
	}

	owner, err := uc.createUser(business.ID, in.OwnerEmail, in.Password, in.OwnerName, entity.UserTypeOwner)
	if err != nil {
		return nil, err
	}
	return &dto.RegisterBusinessResponse{
		BusinessID: business.ID,
		Owner:      *toUserResponse(owner),
	}, nil
}

// RegisterUser crea un empleado dentro del negocio del actor. Requiere el
// permiso users.create (lo verifica el caller vía oráculo antes de llamar al
// handler, ver interfaces/http). Devuelve ErrEmailAlreadyExists si el email
// ya existe en ese negocio.
func (uc *UseCase) RegisterUser(ctx context.Context, businessID string, in dto.RegisterUserRequest) (*dto.UserResponse, error) {
	existing, _ := uc.userRepo.GetByEmailAndBusiness(in.Email, businessID)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	userType := in.Type
	if userType == "" {
		userType = entity.UserTypeCashier
	}
	switch userType {
	case entity.UserTypeOwner, entity.UserTypeAdmin, entity.UserTypeCashier:
	default:
		return nil, domain.NewValidationError("tipo de usuario inválido: " + in.Type)
	}
	user, err := uc.createUser(businessID, in.Email, in.Password, in.Name, userType)
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

func (uc *UseCase) createUser(businessID, email, password, name, userType string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = email
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		BusinessID:   businessID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Type:         userType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.BusinessID, user.Type, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

// SetPIN configura el PIN de re-autorización del propio usuario (bcrypt).
func (uc *UseCase) SetPIN(ctx context.Context, userID, pin string) error {
	if len(pin) < 4 {
		return domain.NewValidationError("el PIN debe tener al menos 4 dígitos")
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePINHash(userID, string(hash))
}

// VerifyPIN valida el PIN de re-autorización en caja (step-up para cancelar o
// devolver ventas cobradas). ErrPINRequired si viene vacío o el usuario no lo
// tiene configurado; ErrInvalidPIN si no coincide.
func (uc *UseCase) VerifyPIN(ctx context.Context, userID, pin string) error {
	if pin == "" {
		return domain.ErrPINRequired
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.PINHash == "" {
		return domain.ErrPINRequired
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PINHash), []byte(pin)); err != nil {
		return domain.ErrInvalidPIN
	}
	return nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		BusinessID: u.BusinessID,
		Email:      u.Email,
		Name:       u.Name,
		Type:       u.Type,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
