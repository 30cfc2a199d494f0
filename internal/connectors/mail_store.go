package connectors

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"reponex/internal"
	"reponex/internal/storage"
)

// MailStoreService keeps raw messages content-addressed on disk so a
// re-fetch of the same price-list email is a no-op. The supplier identity is
// pinned at store time from the sender address, before any attachment is
// decoded.
type MailStoreService struct {
	db         *storage.DB
	rawMailDir string
}

func NewMailStoreService(db *storage.DB, rawMailDir string) *MailStoreService {
	return &MailStoreService{db: db, rawMailDir: rawMailDir}
}

func (s *MailStoreService) Store(msg internal.FetchedMailMessage) (internal.EmailRow, error) {
	hashBytes := sha256.Sum256(msg.Raw)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawMailDir, 0o755); err != nil {
		return internal.EmailRow{}, err
	}

	rawPath := filepath.Join(s.rawMailDir, hash+".eml")
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, msg.Raw, 0o644); err != nil {
			return internal.EmailRow{}, err
		}
	}

	supplier := SupplierFromAddress(msg.From)
	return s.db.UpsertEmail(msg.Provider, msg.MessageID, msg.Subject, msg.From, supplier, msg.ReceivedAt, hash, rawPath, "fetched")
}
