package repository

import (
	"context"

	"farmacia/internal/model"

	"gorm.io/gorm"
)

type PerfilRepository interface {
	List(ctx context.Context) ([]model.Perfil, error)
	FindByID(ctx context.Context, id uint) (*model.Perfil, error)
	FindByRol(ctx context.Context, rol string) (*model.Perfil, error)
	Save(ctx context.Context, p *model.Perfil) error
}

type perfilRepo struct{ db *gorm.DB }

func NewPerfilRepository(db *gorm.DB) PerfilRepository { return &perfilRepo{db: db} }

func (r *perfilRepo) List(ctx context.Context) ([]model.Perfil, error) {
	var perfiles []model.Perfil
	err := r.db.WithContext(ctx).Order("id").Find(&perfiles).Error
	return perfiles, err
}

func (r *perfilRepo) FindByID(ctx context.Context, id uint) (*model.Perfil, error) {
	var p model.Perfil
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *perfilRepo) FindByRol(ctx context.Context, rol string) (*model.Perfil, error) {
	var p model.Perfil
	err := r.db.WithContext(ctx).Where("rol = ?", rol).First(&p).Error
	return &p, err
}

func (r *perfilRepo) Save(ctx context.Context, p *model.Perfil) error {
	return r.db.WithContext(ctx).Save(p).Error
}
