package ui

import (
	"sync"

	"github.com/google/uuid"

	"oncodash/domain/clinical"
)

// viewState is the working state behind one session's predict view: the
// selected model, the editable patient record, and the latest prediction.
// The prediction is cleared whenever the record is regenerated — the old
// prediction no longer corresponds to the displayed features — and only by
// an explicit new sampling or predict action, never by an unrelated failure.
type viewState struct {
	mu            sync.Mutex
	selectedModel clinical.ModelID
	record        clinical.PatientRecord
	prediction    *clinical.Prediction
}

type viewSnapshot struct {
	SelectedModel clinical.ModelID      `json:"selected_model"`
	Record        clinical.PatientRecord `json:"record"`
	Prediction    *clinical.Prediction  `json:"prediction,omitempty"`
}

func (v *viewState) snapshot() viewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	record := make(clinical.PatientRecord, len(v.record))
	for k, val := range v.record {
		record[k] = val
	}
	return viewSnapshot{
		SelectedModel: v.selectedModel,
		Record:        record,
		Prediction:    v.prediction,
	}
}

// ensureRecord initializes a zeroed record over the known features when the
// view has none yet, and defaults the model selection.
func (v *viewState) ensureRecord(features []string, defaultModel clinical.ModelID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.record == nil {
		v.record = clinical.NewPatientRecord(features)
	}
	if v.selectedModel == "" {
		v.selectedModel = defaultModel
	}
}

// replaceRecord swaps in a freshly sampled record and clears the prediction.
func (v *viewState) replaceRecord(record clinical.PatientRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record = record
	v.prediction = nil
}

// setValue applies one feature edit. The record keeps its shape: unknown
// features are ignored rather than added.
func (v *viewState) setValue(feature string, value float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.record == nil {
		return
	}
	if _, known := v.record[feature]; known {
		v.record[feature] = value
	}
}

func (v *viewState) selectModel(id clinical.ModelID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedModel = id
}

func (v *viewState) setPrediction(p *clinical.Prediction) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prediction = p
}

func (v *viewState) clearPrediction() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.prediction = nil
}

func (v *viewState) currentRecord() (clinical.ModelID, clinical.PatientRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()
	record := make(clinical.PatientRecord, len(v.record))
	for k, val := range v.record {
		record[k] = val
	}
	return v.selectedModel, record
}

// viewStates tracks per-session view state, created on demand.
type viewStates struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*viewState
}

func newViewStates() *viewStates {
	return &viewStates{byID: make(map[uuid.UUID]*viewState)}
}

func (v *viewStates) get(id uuid.UUID) *viewState {
	v.mu.RLock()
	state, ok := v.byID[id]
	v.mu.RUnlock()
	if ok {
		return state
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if state, ok = v.byID[id]; ok {
		return state
	}
	state = &viewState{}
	v.byID[id] = state
	return state
}

func (v *viewStates) drop(id uuid.UUID) {
	v.mu.Lock()
	delete(v.byID, id)
	v.mu.Unlock()
}
