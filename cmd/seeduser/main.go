// Command seeduser creates or refreshes the administrator profile (every
// module granted) and an administrator account.
//
//	go run ./cmd/seeduser -username admin -email admin@farmacia.local -password secreto
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"time"

	"farmacia/internal/config"
	"farmacia/internal/infra"
	"farmacia/internal/model"
	"farmacia/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const rolAdministrador = "Administrador"

type seedOptions struct {
	Username string
	Email    string
	Password string
	DNI      string
	Cost     int
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	opts := seedOptions{Cost: 12}
	flag.StringVar(&opts.Username, "username", "admin", "nombre de usuario")
	flag.StringVar(&opts.Email, "email", "admin@farmacia.local", "correo del administrador")
	flag.StringVar(&opts.Password, "password", os.Getenv("SEED_ADMIN_PASSWORD"), "contraseña (o SEED_ADMIN_PASSWORD)")
	flag.StringVar(&opts.DNI, "dni", "00000000", "DNI del administrador")
	flag.Parse()

	if len(opts.Password) < 6 {
		log.Fatal().Msg("password must have at least 6 characters")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBMaxOpenConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer func() { _ = infra.Close(db) }()

	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}

	u, err := seedAdmin(context.Background(), db, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Uint("id", u.ID).Str("username", u.Username).Msg("administrator ready")
}

// seedAdmin is idempotent: the profile gets every module re-granted and an
// existing user only has its password and profile refreshed.
func seedAdmin(ctx context.Context, db *gorm.DB, opts seedOptions) (*model.Usuario, error) {
	perfiles := repository.NewPerfilRepository(db)
	usuarios := repository.NewUsuarioRepository(db)

	perfil, err := perfiles.FindByRol(ctx, rolAdministrador)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		perfil = &model.Perfil{Rol: rolAdministrador}
	}
	perfil.Accesos = make(model.Accesos, 0, len(model.Modulos))
	for _, m := range model.Modulos {
		perfil.Accesos = append(perfil.Accesos, model.Acceso{Modulo: m, Acceso: true})
	}
	if err := perfiles.Save(ctx, perfil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), opts.Cost)
	if err != nil {
		return nil, err
	}

	u, err := usuarios.FindByUsername(ctx, opts.Username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.Usuario{
			Username:       opts.Username,
			NombreCompleto: "Administrador",
			Email:          opts.Email,
			PasswordHash:   string(hash),
			DNI:            opts.DNI,
			PerfilID:       perfil.ID,
		}
		if err := usuarios.Create(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if _, err := usuarios.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
			return nil, err
		}
		u.PerfilID = perfil.ID
		if err := usuarios.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}
