package telemetry

import (
	"fmt"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/scratchcard"
)

const (
	journalObject   = "scratchcard"
	journalProperty = "tally"
)

// Tally counts events across sessions.
type Tally struct {
	Starts       int       `yaml:"starts"`
	Completes    int       `yaml:"completes"`
	Resets       int       `yaml:"resets"`
	Contacts     int       `yaml:"contacts"`
	BestPercent  int       `yaml:"best_percent"`
	LastComplete time.Time `yaml:"last_complete,omitempty"`
}

// Journal keeps a Tally in the platform's per-user data directory.
//
// Emit only updates memory; Save writes the tally out. With a nil store the
// journal runs in memory only and Save is a no-op.
type Journal struct {
	store *gdata.Manager
	tally Tally
}

// OpenJournal opens the gdata store for appName and loads the saved tally.
func OpenJournal(appName string) (*Journal, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("telemetry: open journal: %w", err)
	}
	return NewJournal(m)
}

// NewJournal loads the tally from store. A missing tally starts from zero.
func NewJournal(store *gdata.Manager) (*Journal, error) {
	j := &Journal{store: store}
	if store == nil || !store.ObjectPropExists(journalObject, journalProperty) {
		return j, nil
	}
	data, err := store.LoadObjectProp(journalObject, journalProperty)
	if err != nil {
		return j, fmt.Errorf("telemetry: load tally: %w", err)
	}
	if err := yaml.Unmarshal(data, &j.tally); err != nil {
		j.tally = Tally{}
		return j, fmt.Errorf("telemetry: decode tally: %w", err)
	}
	return j, nil
}

// Emit implements scratchcard.Emitter.
func (j *Journal) Emit(e scratchcard.Event) {
	switch e.Kind {
	case scratchcard.EventScratchStart:
		j.tally.Starts++
	case scratchcard.EventScratchComplete:
		j.tally.Completes++
		j.tally.BestPercent = max(j.tally.BestPercent, e.Percent)
		j.tally.LastComplete = e.Timestamp.UTC()
	case scratchcard.EventScratchReset:
		j.tally.Resets++
	case scratchcard.EventContact:
		j.tally.Contacts++
	}
}

// Tally returns the current counts.
func (j *Journal) Tally() Tally { return j.tally }

// Save persists the tally.
func (j *Journal) Save() error {
	if j.store == nil {
		return nil
	}
	data, err := yaml.Marshal(j.tally)
	if err != nil {
		return fmt.Errorf("telemetry: encode tally: %w", err)
	}
	if err := j.store.SaveObjectProp(journalObject, journalProperty, data); err != nil {
		return fmt.Errorf("telemetry: save tally: %w", err)
	}
	return nil
}
