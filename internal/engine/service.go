package engine

import (
	"sync"

	"spendcast/internal/model"
)

// BankStore persists a model bank between runs. A missing or corrupt saved
// bank is reported as not-found, never as a hard failure.
type BankStore interface {
	SaveBank(bank model.Bank) error
	LoadBank() (bank model.Bank, found bool, err error)
}

// Service owns the mutable model bank: training takes the write lock,
// predictions take the read lock, so readers never observe a partially
// updated model.
type Service struct {
	mu    sync.RWMutex
	bank  model.Bank
	store BankStore
}

// NewService returns a service persisting through store. A nil store keeps
// the bank in memory only.
func NewService(store BankStore) *Service {
	return &Service{store: store}
}

// Initialize restores the last saved bank, if any. Missing or corrupt state
// just means training happens on first use.
func (s *Service) Initialize() error {
	if s.store == nil {
		return nil
	}
	bank, found, err := s.store.LoadBank()
	if err != nil {
		return err
	}
	if found {
		s.mu.Lock()
		s.bank = bank
		s.mu.Unlock()
	}
	return nil
}

// Train fits a new bank from the dataset and swaps it in atomically. The
// bank is persisted when training succeeds and a store is configured.
func (s *Service) Train(ds model.Dataset) (model.TrainingReport, error) {
	bank, report := Train(ds)

	s.mu.Lock()
	s.bank = bank
	s.mu.Unlock()

	if report.Success && s.store != nil {
		if err := s.store.SaveBank(bank); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Predict forecasts total expenses for the target month, training first if
// no model exists yet.
func (s *Service) Predict(ds model.Dataset, target model.Month) (model.PredictionResult, error) {
	if err := s.ensureTrained(ds); err != nil {
		return Degenerate(), err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Forecast(s.bank, ds, target), nil
}

// PredictCategories forecasts the per-category breakdown for the target
// month alongside the aggregate result.
func (s *Service) PredictCategories(ds model.Dataset, target model.Month) (model.PredictionResult, []model.CategoryPrediction, error) {
	if err := s.ensureTrained(ds); err != nil {
		return Degenerate(), nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	aggregate := Forecast(s.bank, ds, target)
	return aggregate, ForecastCategories(s.bank, ds, target, aggregate), nil
}

// ensureTrained trains on first use. Training that fails to produce a model
// is not an error here: prediction degrades to the degenerate result instead
// of refusing to answer.
func (s *Service) ensureTrained(ds model.Dataset) error {
	s.mu.RLock()
	trained := s.bank.Trained()
	s.mu.RUnlock()
	if trained {
		return nil
	}
	_, err := s.Train(ds)
	return err
}

// Bank returns a snapshot of the current model bank.
func (s *Service) Bank() model.Bank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bank
}
