package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/deskly/deskly-api/internal/config"
	"github.com/deskly/deskly-api/internal/domain/location"
	"github.com/deskly/deskly-api/internal/domain/space"
	"github.com/deskly/deskly-api/internal/domain/user"
	"github.com/deskly/deskly-api/internal/pkg/database"
	"github.com/deskly/deskly-api/internal/pkg/password"
)

// Seeds a development database with a small office: one location, one
// building, two floors and a grid of desks plus a couple of meeting rooms.
func main() {
	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userRepo := user.NewRepository(db)
	locationRepo := location.NewRepository(db)
	spaceRepo := space.NewRepository(db)

	// Admin account
	adminHash, err := password.Hash("admin12345")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}
	admin := &user.User{
		Email:        "admin@deskly.local",
		Name:         "Deskly Admin",
		PasswordHash: adminHash,
		IsAdmin:      true,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Warn().Err(err).Msg("Admin user not created (may already exist)")
	} else {
		log.Info().Str("email", admin.Email).Msg("Admin user created")
	}

	// Regular employees
	for i := 1; i <= 3; i++ {
		hash, err := password.Hash("password123")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to hash password")
		}
		u := &user.User{
			Email:        fmt.Sprintf("employee%d@deskly.local", i),
			Name:         fmt.Sprintf("Employee %d", i),
			EmployeeID:   sql.NullString{String: fmt.Sprintf("EMP-%03d", i), Valid: true},
			PasswordHash: hash,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Warn().Err(err).Str("email", u.Email).Msg("User not created")
		}
	}

	// Location > building > floors
	loc := &location.Location{
		Name:     "HQ Campus",
		Address:  sql.NullString{String: "1 Main Street", Valid: true},
		City:     sql.NullString{String: "Almaty", Valid: true},
		IsActive: true,
	}
	if err := locationRepo.CreateLocation(ctx, loc); err != nil {
		log.Fatal().Err(err).Msg("Failed to create location")
	}

	b := &location.Building{
		LocationID: loc.ID,
		Name:       "Tower A",
		IsActive:   true,
	}
	if err := locationRepo.CreateBuilding(ctx, b); err != nil {
		log.Fatal().Err(err).Msg("Failed to create building")
	}

	floors := make([]*location.Floor, 0, 2)
	for i := 1; i <= 2; i++ {
		f := &location.Floor{
			BuildingID:  b.ID,
			Name:        fmt.Sprintf("Floor %d", i),
			FloorNumber: i,
			IsActive:    true,
		}
		if err := locationRepo.CreateFloor(ctx, f); err != nil {
			log.Fatal().Err(err).Msg("Failed to create floor")
		}
		floors = append(floors, f)
	}

	// Space types
	deskType := &space.SpaceType{Name: "desk"}
	roomType := &space.SpaceType{
		Name:        "meeting_room",
		Description: sql.NullString{String: "Bookable meeting room with screen", Valid: true},
	}
	for _, t := range []*space.SpaceType{deskType, roomType} {
		if err := spaceRepo.CreateType(ctx, t); err != nil {
			log.Fatal().Err(err).Str("type", t.Name).Msg("Failed to create space type")
		}
	}

	// Desks in a grid plus meeting rooms on each floor
	for fi, f := range floors {
		for d := 1; d <= 12; d++ {
			coords, _ := json.Marshal(map[string]int{"x": (d - 1) % 4 * 120, "y": (d - 1) / 4 * 100})
			s := &space.Space{
				FloorID:     f.ID,
				SpaceTypeID: deskType.ID,
				Name:        fmt.Sprintf("%d.D%02d", fi+1, d),
				Capacity:    1,
				Coordinates: coords,
				IsBookable:  true,
				IsActive:    true,
			}
			if err := spaceRepo.Create(ctx, s); err != nil {
				log.Fatal().Err(err).Str("space", s.Name).Msg("Failed to create desk")
			}
		}

		for m := 1; m <= 2; m++ {
			features, _ := json.Marshal([]string{"screen", "whiteboard"})
			s := &space.Space{
				FloorID:     f.ID,
				SpaceTypeID: roomType.ID,
				Name:        fmt.Sprintf("%d.M%02d", fi+1, m),
				Capacity:    6,
				Features:    features,
				IsBookable:  true,
				IsActive:    true,
			}
			if err := spaceRepo.Create(ctx, s); err != nil {
				log.Fatal().Err(err).Str("space", s.Name).Msg("Failed to create meeting room")
			}
		}
	}

	log.Info().Msg("Seed complete")
	os.Exit(0)
}
