package model

import (
	"sync"
	"sync/atomic"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
)

var UnavailableMark = domains.New("model_unavailable")

// Holder caches one Model for the lifetime of the process. The first Get
// loads it under a lock, later calls read it without one. A failed load is
// not cached, so the next Get tries again.
type Holder struct {
	loader Loader
	model  atomic.Pointer[modelBox]
	mutex  sync.Mutex
}

type modelBox struct {
	model Model
}

func NewHolder(loader Loader) *Holder {
	return &Holder{loader: loader}
}

func (h *Holder) Get() (Model, error) {
	if box := h.model.Load(); box != nil {
		return box.model, nil
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if box := h.model.Load(); box != nil {
		return box.model, nil
	}

	log.Info("Loading separation model")

	loaded, err := h.loader()
	if err != nil {
		return nil, errors.Mark(cerr.Wrap(err).Error("Failed to load separation model"), UnavailableMark)
	}

	if loaded == nil {
		return nil, errors.Mark(cerr.Error("Model loader returned no model"), UnavailableMark)
	}

	h.model.Store(&modelBox{model: loaded})
	log.WithField("model", loaded.Name()).Info("Separation model loaded")

	return loaded, nil
}

// Loaded reports whether a model is cached, without loading one.
func (h *Holder) Loaded() bool {
	return h.model.Load() != nil
}
