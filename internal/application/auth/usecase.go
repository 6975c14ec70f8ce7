package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/leadportal-api/internal/application/association"
	"github.com/jhoicas/leadportal-api/internal/application/dto"
	"github.com/jhoicas/leadportal-api/internal/domain"
	"github.com/jhoicas/leadportal-api/internal/domain/access"
	"github.com/jhoicas/leadportal-api/internal/domain/entity"
	"github.com/jhoicas/leadportal-api/internal/domain/repository"
	"github.com/jhoicas/leadportal-api/pkg/jwt"
	"github.com/jhoicas/leadportal-api/pkg/logger"
)

// MinPasswordLength longitud mínima de contraseña en el registro.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y resolución de sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	linkRepo repository.CompanyUserRepository
	repair   *association.RepairService
	policy   *access.Policy
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	linkRepo repository.CompanyUserRepository,
	repair *association.RepairService,
	policy *access.Policy,
	jwtCfg JWTConfig,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo: userRepo,
		linkRepo: linkRepo,
		repair:   repair,
		policy:   policy,
		jwtCfg:   jwtCfg,
		log:      log.Component("auth"),
	}
}

// RegisterUser crea un usuario con rol directo customer y le asegura una empresa.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetDirectRole(ctx, user.ID, string(access.RoleCustomer)); err != nil {
		uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("no se pudo asignar el rol directo")
	}
	if uc.repair != nil {
		uc.repair.EnsureQuiet(ctx, user.ID)
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, resuelve la sesión una sola vez y la firma en el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}
	sess, err := uc.ResolveSession(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Subject{
		UserID:     sess.UserID,
		Email:      sess.Email,
		CompanyID:  sess.CompanyID,
		Role:       sess.Role.String(),
		Superadmin: sess.Superadmin,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", sess.Role.String()).Bool("superadmin", sess.Superadmin).Msg("login")
	return &dto.LoginResponse{
		Token:   token,
		User:    *toUserResponse(user),
		Session: dto.NewSessionResponse(uc.policy, sess),
	}, nil
}

// ResolveSession construye la sesión de un usuario: rol directo, asociación canónica y
// capacidad superadmin. Si no tiene empresa intenta repararla; un fallo en la reparación
// deja la sesión sin empresa pero no impide el login.
func (uc *AuthUseCase) ResolveSession(ctx context.Context, user *entity.User) (access.Session, error) {
	direct, err := uc.userRepo.GetDirectRole(ctx, user.ID)
	if err != nil {
		return access.Session{}, fmt.Errorf("rol directo: %w", err)
	}
	rows, err := uc.linkRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return access.Session{}, fmt.Errorf("asociaciones: %w", err)
	}
	if len(rows) == 0 && uc.repair != nil {
		if cu := uc.repair.EnsureQuiet(ctx, user.ID); cu != nil {
			rows = []entity.CompanyUser{*cu}
		}
	}

	sess := access.Session{
		UserID:        user.ID,
		Email:         user.Email,
		Role:          access.ResolveRole(user, direct, rows),
		Superadmin:    user.Superadmin,
		Authenticated: true,
	}
	if best := access.CanonicalAssociation(rows); best != nil {
		sess.CompanyID = best.CompanyID
	}
	return sess, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Status:     u.Status,
		Superadmin: u.Superadmin,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
