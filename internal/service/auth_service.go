package service

import (
	"context"
	"time"

	"farmacia/internal/config"
	"farmacia/internal/dto"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is lowered by tests.
var bcryptCost = 12

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}

	accesos := model.Accesos{}
	if user.Perfil != nil && user.Perfil.Accesos != nil {
		accesos = user.Perfil.Accesos
	}
	plano := accesos.Plano()

	token, err := s.generateToken(user, plano)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Message:   "Bienvenido",
		Token:     token,
		ExpiresIn: s.cfg.JWTExpirationHours * 3600,
		User: dto.UsuarioSesion{
			UsuarioResponse: dto.UsuarioDesdeModelo(user),
			Accesos:         accesos,
			AccesosPlano:    plano,
		},
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, accesos []string) (string, error) {
	rol := ""
	if user.Perfil != nil {
		rol = user.Perfil.Rol
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"rol":      rol,
		"accesos":  accesos,
		"exp":      now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
