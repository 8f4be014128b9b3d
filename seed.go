package erasite

import (
	"context"
	"errors"
	"fmt"

	"github.com/eringen/erasite/apperror"
	"github.com/eringen/erasite/auth"
	"github.com/eringen/erasite/model"
)

// Default administrator created by Seed. Change the password right after
// the first deploy with `erasite create-admin`.
const (
	SeedAdminUsername = "admin"
	SeedAdminPassword = "admin123"
)

var seedEras = []model.EraInput{
	{
		Title:       "Arcade",
		Description: "Эпоха аркадных игр, характеризующаяся простым геймплеем и пиксельной графикой. Игры были доступны в специальных автоматах и ранних домашних консолях.",
		StartYear:   1970,
		EndYear:     1985,
		ImageURL:    "/images/arcade.jpg",
		Tags:        []string{"Аркады"},
	},
	{
		Title:       "Console",
		Description: "Период расцвета консольных игр с улучшенной графикой и более сложным геймплеем. Появление 3D-графики и мультиплеера.",
		StartYear:   1985,
		EndYear:     2000,
		ImageURL:    "/images/console.jpg",
		Tags:        []string{"Консоли", "3D"},
	},
	{
		Title:       "Modern",
		Description: "Современная эпоха игр с фотореалистичной графикой, онлайн-мультиплеером и мобильными играми. Развитие VR и AR технологий.",
		StartYear:   2000,
		EndYear:     2024,
		ImageURL:    "/images/modern.jpg",
		Tags:        []string{"3D", "Онлайн", "Мобильные"},
	},
}

// Seed fills an empty database with the starter eras, their tags and the
// default administrator. An existing admin account is left untouched.
func Seed(ctx context.Context, s Storage, ps *auth.PasswordService) error {
	for _, in := range seedEras {
		if _, err := s.CreateEra(ctx, in); err != nil {
			return fmt.Errorf("seed era %s: %w", in.Title, err)
		}
	}
	hash, err := ps.Hash(SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	if _, err := s.CreateUser(ctx, SeedAdminUsername, hash, true); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
