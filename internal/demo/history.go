package demo

import (
	"time"

	"github.com/granchi/hollywood/pkg/actors/preferences"
	"github.com/granchi/hollywood/pkg/domain"
)

// Stored keys.
const (
	keyRuns = "runs"
	keyLast = "last_liftoff"
)

// History is the preferences Model counting completed runs.
//
// Before the namespace is loaded it has no Values, so the defaults never
// overwrite what is stored. A liftoff arriving before the load is recorded
// right after it. The History ends once the closing values are saved.
type History struct {
	namespace string
	loaded    bool
	closing   bool
	pending   string

	Runs        int
	LastLiftoff string
}

type storedHistory struct {
	Runs        int    `pref:"runs"`
	LastLiftoff string `pref:"last_liftoff"`
}

func (h History) ActUpon(action domain.Action) (domain.Model, error) {
	switch a := action.(type) {
	case preferences.Loaded:
		if a.Namespace != h.namespace {
			return h, nil
		}
		var stored storedHistory
		if err := preferences.Decode(a.Values, &stored); err != nil {
			return nil, err
		}
		h.Runs, h.LastLiftoff = stored.Runs, stored.LastLiftoff
		return h.load(), nil

	case preferences.LoadFailed:
		if a.Namespace != h.namespace {
			return h, nil
		}
		return h.load(), nil

	case Liftoff:
		h.closing = true
		h.pending = a.At.UTC().Format(time.RFC3339)
		if h.loaded {
			h = h.record()
		}
		return h, nil

	case preferences.Saved:
		// Only the save of the closing values ends the History.
		if a.Namespace == h.namespace && h.closing && a.Values[keyRuns] == h.Runs {
			return nil, nil
		}

	case preferences.SaveFailed:
		if a.Namespace == h.namespace && h.closing {
			return nil, a.Err
		}
	}
	return h, nil
}

func (h History) load() History {
	h.loaded = true
	if h.closing {
		h = h.record()
	}
	return h
}

func (h History) record() History {
	h.Runs++
	h.LastLiftoff = h.pending
	h.pending = ""
	return h
}

func (h History) Actors() domain.MetadataSet {
	return domain.NewMetadataSet(preferences.Metadata{Namespace: h.namespace})
}

func (h History) Namespace() string {
	return h.namespace
}

func (h History) Values() map[string]any {
	if !h.loaded {
		return nil
	}
	return map[string]any{
		keyRuns: h.Runs,
		keyLast: h.LastLiftoff,
	}
}
