package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"reponex/internal"
	"reponex/internal/config"
	"reponex/internal/storage"
)

// ProcessingService turns stored supplier emails into catalog entries. Each
// processed email replaces the previous load of the files it carries, so a
// supplier re-sending an updated price list supersedes the old one.
type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	EmailID int
	Files   int
	Entries int
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	email, err := s.db.MustEmailByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessEmail(email)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListEmailsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedEmails := 0
	loadedEntries := 0
	for _, email := range pending {
		if provider != "" && email.Provider != provider {
			continue
		}
		res, err := s.ProcessEmail(email)
		if err != nil {
			return processedEmails, loadedEntries, err
		}
		processedEmails++
		loadedEntries += res.Entries
	}
	return processedEmails, loadedEntries, nil
}

func (s *ProcessingService) ProcessEmail(email internal.EmailRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(email.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	parsed, err := ParseCatalogEmail(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectPriceListEmail(firstNonEmpty(parsed.Subject, email.Subject), parsed.Text, parsed.HTML, parsed.AttachmentNames)
	if !detect.IsPriceList {
		_ = s.db.UpdateEmailStatus(email.ID, "skipped")
		return ProcessResult{EmailID: email.ID}, nil
	}

	totalEntries := 0
	for _, file := range parsed.Files {
		entries := EntriesFromFile(file)
		source := fmt.Sprintf("email:%s:%s", email.Provider, email.MessageID)
		if _, err := s.db.ReplaceCatalogFile(file.Name, file.Supplier(), source, entries); err != nil {
			return ProcessResult{}, err
		}
		totalEntries += len(entries)
	}

	if err := s.db.UpdateEmailStatus(email.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	_ = s.db.SetMetadata("catalog.last_mail_load", time.Now().UTC().Format(time.RFC3339))
	_ = s.db.SetMetadata("catalog.last_mail_load_ms", fmt.Sprintf("%d", time.Since(start).Milliseconds()))

	return ProcessResult{EmailID: email.ID, Files: len(parsed.Files), Entries: totalEntries}, nil
}

func TraceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
