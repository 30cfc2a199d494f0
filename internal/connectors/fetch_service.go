package connectors

import (
	"reponex/internal/storage"
)

// FetchService pulls supplier mail from a connector and lands each message
// in the raw store with a "fetched" row, ready for catalog processing. Mail
// from senders outside the supplier allow-list is counted but never stored.
type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
	senders   []string
}

type FetchResult struct {
	Fetched int
	Stored  int
	Skipped int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector, supplierSenders []string) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
		senders:   supplierSenders,
	}
}

func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{Fetched: len(messages)}
	for _, msg := range messages {
		if !SenderAllowed(msg.From, s.senders) {
			result.Skipped++
			continue
		}
		if _, err := s.store.Store(msg); err != nil {
			return FetchResult{}, err
		}
		result.Stored++
	}

	return result, nil
}
