package directory

import (
	"context"                    // Context for cancellation
	"dapptrack/internal/domain"  // Importing domain models
	"dapptrack/internal/pinning" // IPFS pinning client
	"fmt"                        // Formatting error messages
	"sync"                       // Mutex

	"github.com/sirupsen/logrus" // Structured logging
)

// SnapshotName is the pin name every directory snapshot is stored under.
const SnapshotName = "dapptrack-organizations.json"

// Pinner is the part of the pinning client the directory needs.
type Pinner interface {
	PinJSON(ctx context.Context, name string, v any) (pinning.PinResult, error)
	LatestByName(ctx context.Context, name string) (pinning.Pin, bool, error)
	FetchJSON(ctx context.Context, cid string, dest any) error
}

// Snapshotter publishes the whole directory to IPFS. Publishes are serialized
// and each one reads the store while holding the lock, so the newest snapshot
// always contains every committed organization.
type Snapshotter struct {
	mu     sync.Mutex // Serializes Publish and Bootstrap
	store  *Store     // Directory store
	pinner Pinner     // IPFS client
}

// NewSnapshotter binds a store to a pinning client.
func NewSnapshotter(store *Store, pinner Pinner) *Snapshotter {
	return &Snapshotter{store: store, pinner: pinner}
}

// Publish uploads the current directory and records the resulting CID.
func (s *Snapshotter) Publish(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orgs, err := s.store.List(ctx) // Read under the lock
	if err != nil {
		return "", err
	}
	result, err := s.pinner.PinJSON(ctx, SnapshotName, orgs)
	if err != nil {
		return "", fmt.Errorf("publish directory: %w", err)
	}
	if err := s.store.RecordSnapshot(ctx, result.IpfsHash, len(orgs)); err != nil {
		return result.IpfsHash, err // Uploaded but not recorded
	}
	logrus.WithFields(logrus.Fields{"cid": result.IpfsHash, "count": len(orgs)}).Info("Directory snapshot published")
	return result.IpfsHash, nil
}

// Bootstrap imports the latest pinned snapshot when the store is empty.
// It returns how many organizations were imported.
func (s *Snapshotter) Bootstrap(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil // Store already populated
	}
	pin, ok, err := s.pinner.LatestByName(ctx, SnapshotName)
	if err != nil {
		return 0, fmt.Errorf("find directory snapshot: %w", err)
	}
	if !ok {
		return 0, nil // No snapshot pinned yet
	}
	var orgs []domain.DirectoryOrganization
	if err := s.pinner.FetchJSON(ctx, pin.CID, &orgs); err != nil {
		return 0, fmt.Errorf("load directory snapshot: %w", err)
	}
	if err := s.store.Import(ctx, orgs); err != nil {
		return 0, err
	}
	if err := s.store.RecordSnapshot(ctx, pin.CID, len(orgs)); err != nil {
		return len(orgs), err // Imported but not recorded
	}
	logrus.WithFields(logrus.Fields{"cid": pin.CID, "count": len(orgs)}).Info("Directory restored from snapshot")
	return len(orgs), nil
}
