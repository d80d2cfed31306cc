package bootstrap

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"gator.dev/studygator/internal/entity"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "studygator123"

type demoListing struct {
	subject     string
	title       string
	salesPitch  string
	description string
	pricing     float64
}

var demoListings = []demoListing{
	{"Mathematics", "Calculus I and II tutoring", "Limits, derivatives and integrals without the panic", "Weekly one-on-one sessions working through problem sets and past exams.", 25},
	{"Computer Science", "Intro to programming in Python", "From hello world to data structures", "Pair programming on homework, debugging help and exam review.", 30},
	{"Physics", "Mechanics study group", "F = ma, explained with real examples", "Small group sessions covering kinematics, forces and energy.", 15},
}

// SeedDemoData creates a demo tutor with approved listings so a fresh development
// database has something to search. It does nothing when the tutor already exists.
func SeedDemoData(ctx context.Context, db *gorm.DB, domain string, logger *zap.Logger) error {
	email := "demo.tutor@" + domain

	var count int64
	if err := db.WithContext(ctx).Model(&entity.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("demo data already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	img, err := placeholderImage()
	if err != nil {
		return err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tutor := entity.User{Name: "Demo Tutor", Email: email, Password: string(hashed)}
		if err := tx.Create(&tutor).Error; err != nil {
			return err
		}

		for _, d := range demoListings {
			var subject entity.Subject
			if err := tx.Where("name = ?", d.subject).First(&subject).Error; err != nil {
				return fmt.Errorf("find subject %q: %w", d.subject, err)
			}

			listing := entity.Listing{
				AssociatedUserID: tutor.ID,
				SubjectID:        subject.ID,
				Title:            d.title,
				SalesPitch:       d.salesPitch,
				Description:      d.description,
				Pricing:          d.pricing,
				Image:            img,
				Approved:         true,
			}
			if err := tx.Create(&listing).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	logger.Info("demo data seeded",
		zap.String("email", email),
		zap.Int("listings", len(demoListings)))

	return nil
}

// placeholderImage renders a small solid PNG used as the demo listing picture.
func placeholderImage() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{R: 0x46, G: 0x2e, B: 0x83, A: 0xff}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
