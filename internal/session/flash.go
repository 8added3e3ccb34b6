package session

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string
	Title   string
	Message string
}

func (s *Store) AddFlash(id string, f Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(id)
	e.flashes = append(e.flashes, f)
}

// PopFlashes returns the pending flashes of a session and clears them.
func (s *Store) PopFlashes(id string) []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || len(e.flashes) == 0 {
		return nil
	}
	out := e.flashes
	e.flashes = nil
	s.pruneLocked(id)
	return out
}
