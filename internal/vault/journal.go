package vault

import (
	"encoding/json"
	"fmt"

	"github.com/ambrosios/monorga/internal/storage"
)

// Persisted slot names.
const (
	KeyCredential = "credential"
	KeyEnvelope   = "envelope"
	KeyPending    = "pending"
)

// clearedJournal marks a pending slot with nothing left to apply.
var clearedJournal = []byte("{}")

// journal holds a credential/envelope pair that replaces the current one.
// Once written it is authoritative until applied and cleared.
type journal struct {
	Credential []byte `json:"credential,omitempty"`
	Envelope   []byte `json:"envelope,omitempty"`
}

func (j *journal) active() bool {
	return len(j.Credential) > 0 && len(j.Envelope) > 0
}

// records is the credential/envelope pair a reader should use.
type records struct {
	credential    []byte
	envelope      []byte
	hasCredential bool
	hasEnvelope   bool
}

func readJournal(slots storage.Persistence) (*journal, error) {
	data, ok, err := slots.Get(KeyPending)
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}

	var j journal
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, corruption(fmt.Errorf("unreadable journal: %w", err))
	}
	if !j.active() {
		return nil, nil
	}
	return &j, nil
}

// readRecords resolves the current pair, preferring a pending journal so
// that a reader never mixes a new credential with an old envelope.
func readRecords(slots storage.Persistence) (*records, error) {
	j, err := readJournal(slots)
	if err != nil {
		return nil, err
	}
	if j != nil {
		return &records{
			credential:    j.Credential,
			envelope:      j.Envelope,
			hasCredential: true,
			hasEnvelope:   true,
		}, nil
	}

	r := &records{}
	r.credential, r.hasCredential, err = slots.Get(KeyCredential)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	r.envelope, r.hasEnvelope, err = slots.Get(KeyEnvelope)
	if err != nil {
		return nil, fmt.Errorf("failed to read envelope: %w", err)
	}
	return r, nil
}

// commitPair replaces credential and envelope as one unit. With a Batcher
// this is a single write. Otherwise the journal is written first; after
// that point the pair is committed even if applying it fails, and the
// returned applied flag reports whether the slots already reflect it.
func commitPair(slots storage.Persistence, credential, envelope []byte) (applied bool, err error) {
	if b, ok := slots.(storage.Batcher); ok {
		err := b.SetBatch(map[string][]byte{
			KeyCredential: credential,
			KeyEnvelope:   envelope,
		})
		if err != nil {
			return false, fmt.Errorf("failed to store records: %w", err)
		}
		return true, nil
	}

	j := &journal{Credential: credential, Envelope: envelope}
	data, err := json.Marshal(j)
	if err != nil {
		return false, fmt.Errorf("failed to marshal journal: %w", err)
	}
	if err := slots.Set(KeyPending, data); err != nil {
		return false, fmt.Errorf("failed to write journal: %w", err)
	}

	return applyJournal(slots, j) == nil, nil
}

func applyJournal(slots storage.Persistence, j *journal) error {
	if err := slots.Set(KeyCredential, j.Credential); err != nil {
		return fmt.Errorf("failed to apply credential: %w", err)
	}
	if err := slots.Set(KeyEnvelope, j.Envelope); err != nil {
		return fmt.Errorf("failed to apply envelope: %w", err)
	}
	if err := slots.Set(KeyPending, clearedJournal); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}

// recoverJournal rolls a pending journal forward.
func recoverJournal(slots storage.Persistence) (bool, error) {
	j, err := readJournal(slots)
	if err != nil || j == nil {
		return false, err
	}
	if err := applyJournal(slots, j); err != nil {
		return false, err
	}
	return true, nil
}
