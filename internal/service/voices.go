package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/storyreel/internal/domain"
)

// VoiceMatch is a filtered voice with the name positions that matched
type VoiceMatch struct {
	Voice          domain.Voice
	MatchedIndexes []int
}

// voiceSource implements sahilm/fuzzy.Source over voice names
type voiceSource []domain.Voice

func (v voiceSource) String(i int) string { return v[i].Name }
func (v voiceSource) Len() int            { return len(v) }

// VoiceService caches the backend's voices and filters them locally
type VoiceService struct {
	backend domain.VoiceBackend
	logger  *slog.Logger

	mu     sync.RWMutex
	voices []domain.Voice
	loaded bool
}

// NewVoiceService creates a voice service
func NewVoiceService(backend domain.VoiceBackend, logger *slog.Logger) *VoiceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoiceService{backend: backend, logger: logger}
}

// Voices returns the cached voices, fetching them on first use
func (s *VoiceService) Voices(ctx context.Context) ([]domain.Voice, error) {
	s.mu.RLock()
	if s.loaded {
		voices := s.voices
		s.mu.RUnlock()
		return voices, nil
	}
	s.mu.RUnlock()
	return s.Refresh(ctx)
}

// Refresh refetches the voice list
func (s *VoiceService) Refresh(ctx context.Context) ([]domain.Voice, error) {
	voices, err := s.backend.Voices(ctx)
	if err != nil {
		s.logger.Error("failed to fetch voices", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.voices = voices
	s.loaded = true
	s.mu.Unlock()

	s.logger.Debug("fetched voices", "count", len(voices))
	return voices, nil
}

// Filter fuzzy-matches cached voice names. An empty query returns every voice.
func (s *VoiceService) Filter(query string) []VoiceMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if query == "" {
		matches := make([]VoiceMatch, len(s.voices))
		for i, v := range s.voices {
			matches[i] = VoiceMatch{Voice: v}
		}
		return matches
	}

	found := fuzzy.FindFrom(query, voiceSource(s.voices))
	matches := make([]VoiceMatch, len(found))
	for i, m := range found {
		matches[i] = VoiceMatch{Voice: s.voices[m.Index], MatchedIndexes: m.MatchedIndexes}
	}
	return matches
}

// Lookup returns the cached voice with the given ID
func (s *VoiceService) Lookup(id string) (domain.Voice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.voices {
		if v.ID == id {
			return v, true
		}
	}
	return domain.Voice{}, false
}
