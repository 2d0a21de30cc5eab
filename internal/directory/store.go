// Package directory keeps the off-chain organization directory: a durable
// gorm store plus snapshots of it pinned to IPFS.
package directory

import (
	"context"                   // Context for cancellation
	"dapptrack/internal/domain" // Importing domain models
	"errors"                    // Error inspection
	"fmt"                       // Formatting error messages
	"strings"                   // String helpers
	"time"                      // Timestamps and timeouts

	"github.com/google/uuid" // UUID generation
	"gorm.io/gorm"           // ORM
)

var (
	// ErrNotFound is returned for an unknown organization id.
	ErrNotFound = errors.New("organization not found")
	// ErrInvalid wraps input the directory rejects.
	ErrInvalid = errors.New("invalid directory input")
)

// RegisterInput is what a registrant submits.
type RegisterInput struct {
	Name         string `json:"name" binding:"required"`                // Required
	Type         string `json:"type"`                                   // e.g. NGO, Community
	Locality     string `json:"locality"`                               // City or region
	Description  string `json:"description"`                            // Short description
	Mission      string `json:"mission"`                                // Mission statement
	ContactEmail string `json:"contactEmail" binding:"omitempty,email"` // Validated when present
	Website      string `json:"website"`                                // Homepage
	Founded      string `json:"founded"`                                // Founding year
	Logo         string `json:"logo"`                                   // Emoji or image URL
	RegisteredBy string `json:"registeredBy"`                           // Wallet address of the registrant
}

// ReviewInput is what a donor submits about an organization.
type ReviewInput struct {
	Donor          string  `json:"donor"`                                 // Reviewer wallet
	Rating         int     `json:"rating" binding:"required,min=1,max=5"` // 1 to 5 stars
	Comment        string  `json:"comment"`                               // Free text
	DonationAmount float64 `json:"donationAmount" binding:"gte=0"`        // APT the reviewer donated
}

// Store persists directory organizations. Every mutation runs in a database
// transaction so concurrent writers never overwrite each other.
type Store struct {
	db  *gorm.DB         // Database connection
	now func() time.Time // Clock, replaced in tests
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Register appends a new organization with the default statistics.
func (s *Store) Register(ctx context.Context, in RegisterInput) (domain.DirectoryOrganization, error) {
	org := domain.DirectoryOrganization{
		ID:           uuid.NewString(),           // Random id
		Name:         strings.TrimSpace(in.Name), // Trimmed name
		Type:         in.Type,
		Locality:     in.Locality,
		Description:  in.Description,
		Mission:      in.Mission,
		ContactEmail: in.ContactEmail,
		Website:      in.Website,
		Founded:      in.Founded,
		Logo:         in.Logo,
		RegisteredBy: in.RegisteredBy,
		RegisteredAt: s.now(),                  // Registration time
		TrustScore:   domain.DefaultTrustScore, // Unreviewed organizations start at 50
		Reviews:      []domain.Review{},        // Never null in JSON
	}
	if org.Name == "" {
		return domain.DirectoryOrganization{}, fmt.Errorf("%w: organization name is required", ErrInvalid)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&org).Error // Insert in a transaction
	})
	if err != nil {
		return domain.DirectoryOrganization{}, fmt.Errorf("register organization: %w", err)
	}
	return org, nil
}

// List returns every organization with its reviews in registration order.
func (s *Store) List(ctx context.Context) ([]domain.DirectoryOrganization, error) {
	var orgs []domain.DirectoryOrganization
	err := s.db.WithContext(ctx).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Order("registered_at ASC").Order("id ASC").
		Find(&orgs).Error
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	for i := range orgs {
		if orgs[i].Reviews == nil {
			orgs[i].Reviews = []domain.Review{} // Never null in JSON
		}
	}
	return orgs, nil
}

// Get returns one organization with its reviews.
func (s *Store) Get(ctx context.Context, id string) (domain.DirectoryOrganization, error) {
	return s.get(s.db.WithContext(ctx), id)
}

func (s *Store) get(db *gorm.DB, id string) (domain.DirectoryOrganization, error) {
	var org domain.DirectoryOrganization
	err := db.Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Where("id = ?", id).First(&org).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.DirectoryOrganization{}, ErrNotFound // Unknown id
	}
	if err != nil {
		return domain.DirectoryOrganization{}, fmt.Errorf("get organization %s: %w", id, err)
	}
	if org.Reviews == nil {
		org.Reviews = []domain.Review{} // Never null in JSON
	}
	return org, nil
}

// AddReview appends a review and returns it with the updated organization.
func (s *Store) AddReview(ctx context.Context, orgID string, in ReviewInput) (domain.Review, domain.DirectoryOrganization, error) {
	review := domain.Review{
		ID:             uuid.NewString(), // Random id
		OrganizationID: orgID,            // Reviewed organization
		Donor:          in.Donor,
		Rating:         in.Rating,
		Comment:        in.Comment,
		Date:           s.now(), // Review time
		DonationAmount: in.DonationAmount,
	}
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Review{}, domain.DirectoryOrganization{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalid)
	}

	var org domain.DirectoryOrganization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.get(tx, orgID); err != nil {
			return err // Unknown organization
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		var err error
		org, err = s.get(tx, orgID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.Review{}, domain.DirectoryOrganization{}, ErrNotFound
		}
		return domain.Review{}, domain.DirectoryOrganization{}, fmt.Errorf("add review: %w", err)
	}
	return review, org, nil
}

// Verify sets the verified flag and, when given, the trust score.
func (s *Store) Verify(ctx context.Context, id string, verified bool, trustScore *int) (domain.DirectoryOrganization, error) {
	if trustScore != nil && (*trustScore < 0 || *trustScore > 100) {
		return domain.DirectoryOrganization{}, fmt.Errorf("%w: trust score must be between 0 and 100", ErrInvalid)
	}
	var org domain.DirectoryOrganization
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.get(tx, id); err != nil {
			return err // Unknown organization
		}
		updates := map[string]any{"verified": verified}
		if trustScore != nil {
			updates["trust_score"] = *trustScore // Score only changes when given
		}
		if err := tx.Model(&domain.DirectoryOrganization{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		var err error
		org, err = s.get(tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.DirectoryOrganization{}, ErrNotFound // Unknown id
		}
		return domain.DirectoryOrganization{}, fmt.Errorf("verify organization: %w", err)
	}
	return org, nil
}

// Count returns the number of organizations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.DirectoryOrganization{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return n, nil
}

// Import inserts previously exported organizations, keeping their ids.
// Entries without an id get a fresh one.
func (s *Store) Import(ctx context.Context, orgs []domain.DirectoryOrganization) error {
	if len(orgs) == 0 {
		return nil // Nothing to import
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, org := range orgs {
			if org.ID == "" {
				org.ID = uuid.NewString() // Entries without an id
			}
			if org.RegisteredAt.IsZero() {
				org.RegisteredAt = s.now() // Entries without a date
			}
			for i := range org.Reviews {
				if org.Reviews[i].ID == "" {
					org.Reviews[i].ID = uuid.NewString() // Reviews without an id
				}
				org.Reviews[i].OrganizationID = org.ID // Re-link to the imported organization
			}
			if err := tx.Create(&org).Error; err != nil {
				return fmt.Errorf("import organization %s: %w", org.ID, err)
			}
			// Create leaves a zero trust score to the column default, write it explicitly
			if err := tx.Model(&domain.DirectoryOrganization{}).Where("id = ?", org.ID).Update("trust_score", org.TrustScore).Error; err != nil {
				return fmt.Errorf("import organization %s: %w", org.ID, err)
			}
		}
		return nil
	})
}

// RecordSnapshot stores the CID of an uploaded directory snapshot.
func (s *Store) RecordSnapshot(ctx context.Context, cid string, count int) error {
	snap := domain.DirectorySnapshot{CID: cid, Count: count} // Append only
	if err := s.db.WithContext(ctx).Create(&snap).Error; err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// LatestSnapshotCID returns the newest recorded snapshot CID, "" when none.
func (s *Store) LatestSnapshotCID(ctx context.Context) (string, error) {
	var snap domain.DirectorySnapshot
	err := s.db.WithContext(ctx).Order("id DESC").Limit(1).Find(&snap).Error
	if err != nil {
		return "", fmt.Errorf("latest snapshot: %w", err)
	}
	return snap.CID, nil
}
