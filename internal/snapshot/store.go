package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sprintcap/internal/ado"

	"github.com/rs/zerolog/log"
)

// Store persists team snapshots as one JSON file per team in a cache directory.
type Store struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewStore creates a store in dir. Snapshots older than maxAge are ignored on
// load; a zero maxAge disables the check.
func NewStore(dir string, maxAge time.Duration) *Store {
	return &Store{dir: dir, maxAge: maxAge, now: time.Now}
}

func (s *Store) path(teamID string) string {
	return filepath.Join(s.dir, ado.NormalizeID(teamID)+".json")
}

// Save writes the snapshot atomically.
func (s *Store) Save(snap *TeamSnapshot) error {
	if snap.Team.ID == "" {
		return fmt.Errorf("snapshot has no team id")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}

	path := s.path(snap.Team.ID)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename snapshot file: %w", err)
	}

	log.Info().Str("team", snap.Team.Name).Int("iterations", len(snap.Iterations)).Str("path", path).Msg("Snapshot saved")
	return nil
}

// Load finds the snapshot of a team by id or name.
func (s *Store) Load(teamRef string) (*TeamSnapshot, error) {
	snaps, err := s.List()
	if err != nil {
		return nil, err
	}

	teams := make([]ado.Team, 0, len(snaps))
	for _, snap := range snaps {
		teams = append(teams, snap.Team)
	}
	team, err := ado.FindTeam(teams, teamRef)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", teamRef, ErrNoSnapshot)
	}

	for _, snap := range snaps {
		if snap.Team.ID != team.ID {
			continue
		}
		if s.maxAge > 0 && s.now().Sub(snap.FetchedAt) > s.maxAge {
			log.Warn().Str("team", team.Name).Time("fetched_at", snap.FetchedAt).Dur("max_age", s.maxAge).Msg("Snapshot is stale, ignoring")
			return nil, fmt.Errorf("%s is stale: %w", team.Name, ErrNoSnapshot)
		}
		return snap, nil
	}
	return nil, fmt.Errorf("%s: %w", teamRef, ErrNoSnapshot)
}

// List decodes every snapshot in the cache directory, skipping unreadable files.
func (s *Store) List() ([]*TeamSnapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No cache yet, not an error
		}
		return nil, fmt.Errorf("failed to read cache dir: %w", err)
	}

	var snaps []*TeamSnapshot
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		snap, err := readFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("Skipping invalid snapshot")
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func readFile(path string) (*TeamSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap TeamSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	if snap.Inputs == nil {
		snap.Inputs = make(map[string]*IterationInputs)
	}
	return &snap, nil
}
