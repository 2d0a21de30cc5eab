package domain

import "time" // Review and snapshot timestamps

// DirectoryOrganization is an off-chain directory entry with its reviews
type DirectoryOrganization struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`                                         // UUID
	Name              string    `gorm:"not null" json:"name"`                                                 // Display name
	Type              string    `gorm:"size:32;index" json:"type"`                                            // NGO, Government, Community, International
	Locality          string    `gorm:"size:128;index" json:"locality"`                                       // Where it operates
	Description       string    `gorm:"type:text" json:"description"`                                         // Free text description
	Mission           string    `gorm:"type:text" json:"mission"`                                             // Mission statement
	ContactEmail      string    `json:"contactEmail"`                                                         // Contact address
	Website           string    `json:"website"`                                                              // Homepage
	Founded           string    `json:"founded"`                                                              // Founding year as entered
	Logo              string    `json:"logo"`                                                                 // Emoji or image URL
	RegisteredBy      string    `json:"registeredBy,omitempty"`                                               // Wallet address of the registrant
	RegisteredAt      time.Time `json:"registeredAt"`                                                         // Registration time
	TrustScore        int       `gorm:"not null;default:50" json:"trustScore"`                                // 0-100
	TotalDonations    float64   `gorm:"not null;default:0" json:"totalDonations"`                             // APT
	ActiveFunds       float64   `gorm:"not null;default:0" json:"activeFunds"`                                // APT
	CompletedProjects int       `gorm:"not null;default:0" json:"completedProjects"`                          // Count
	Beneficiaries     int       `gorm:"not null;default:0" json:"beneficiaries"`                              // Count
	Verified          bool      `gorm:"not null;default:false" json:"verified"`                               // Set by an operator
	Reviews           []Review  `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"reviews"` // Donor reviews
}

// TableName keeps the directory table apart from any future ledger mirror
func (DirectoryOrganization) TableName() string {
	return "directory_organizations"
}

// AverageRating is the mean review rating, 0 without reviews
func (o DirectoryOrganization) AverageRating() float64 {
	if len(o.Reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range o.Reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(o.Reviews))
}

// Review is a donor's rating of a directory organization
type Review struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`             // UUID
	OrganizationID string    `gorm:"size:36;index;not null" json:"-"`          // Owning organization
	Donor          string    `json:"donor"`                                    // Donor label
	Rating         int       `gorm:"not null" json:"rating"`                   // 1-5
	Comment        string    `gorm:"type:text" json:"comment"`                 // Free text
	Date           time.Time `gorm:"index" json:"date"`                        // When it was written
	DonationAmount float64   `gorm:"not null;default:0" json:"donationAmount"` // APT the donor gave
}

// DirectorySnapshot records each directory upload to the pinning service
type DirectorySnapshot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	CID       string    `gorm:"size:128;not null" json:"cid"`          // Content identifier of the snapshot
	Count     int       `gorm:"not null" json:"count"`                 // Organizations in the snapshot
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"` // Upload time
}

// Trust scores assigned when no operator has rated an organization yet.
const (
	DefaultTrustScore = 50 // Newly registered directory entries
	LedgerTrustScore  = 85 // Organizations registered on the ledger
)
