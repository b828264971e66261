// Package catalog holds the emoji puzzle pool and selection logic.
package catalog

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"slices"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

// ErrNotFound means no puzzle matches the requested category/difficulty
// outside the excluded set. The session engine reacts by resetting the
// exclusion window and retrying once.
var ErrNotFound = errors.New("no matching puzzle")

// Catalog is the immutable pool of puzzles, loaded once at startup.
type Catalog struct {
	puzzles []models.Puzzle
	byID    map[string]models.Puzzle
}

// puzzleRecord is the authoring format: one entry of the per-category list
// in the puzzles JSON file.
type puzzleRecord struct {
	Emojis     string   `json:"emojis"`
	Answer     string   `json:"answer"`
	Difficulty string   `json:"difficulty"`
	Hints      []string `json:"hints"`
}

// Load reads the puzzle pool from a JSON file mapping category names to
// puzzle records. When the file is missing the built-in default set is used.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("puzzle file not found, using built-in puzzles")
			return fromRecords(defaultPuzzles())
		}
		return nil, fmt.Errorf("read puzzle file: %w", err)
	}

	var byCategory map[string][]puzzleRecord
	if err := json.Unmarshal(data, &byCategory); err != nil {
		return nil, fmt.Errorf("parse puzzle file: %w", err)
	}
	return fromRecords(byCategory)
}

func fromRecords(byCategory map[string][]puzzleRecord) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]models.Puzzle)}

	// Categories sorted so ids are stable between runs.
	for _, category := range sortedKeys(byCategory) {
		cat, ok := models.ParseCategory(category)
		if !ok {
			log.Warn().Str("category", category).Msg("skipping unknown puzzle category")
			continue
		}
		for i, rec := range byCategory[category] {
			id := fmt.Sprintf("%s_%d", category, i+1)
			difficulty, ok := models.ParseDifficulty(rec.Difficulty)
			if !ok {
				difficulty = models.DifficultyMedium
			}
			if rec.Emojis == "" || rec.Answer == "" {
				log.Warn().Str("id", id).Msg("skipping puzzle with empty emojis or answer")
				continue
			}
			p := models.Puzzle{
				ID:         id,
				Emojis:     rec.Emojis,
				Answer:     rec.Answer,
				Category:   cat,
				Difficulty: difficulty,
				Hints:      rec.Hints,
			}
			c.puzzles = append(c.puzzles, p)
			c.byID[id] = p
		}
	}

	if len(c.puzzles) == 0 {
		return nil, errors.New("puzzle pool is empty")
	}
	log.Info().Int("puzzles", len(c.puzzles)).Msg("puzzle catalog loaded")
	return c, nil
}

func sortedKeys(m map[string][]puzzleRecord) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}

// Size returns the number of puzzles in the pool.
func (c *Catalog) Size() int {
	return len(c.puzzles)
}

// Get returns a puzzle by id.
func (c *Catalog) Get(id string) (models.Puzzle, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Select picks a puzzle uniformly at random among those matching the given
// category and difficulty (empty means any) whose id is not in excluded.
func (c *Catalog) Select(category models.Category, difficulty models.Difficulty, excluded []string) (models.Puzzle, error) {
	candidates := lo.Filter(c.puzzles, func(p models.Puzzle, _ int) bool {
		if category != "" && p.Category != category {
			return false
		}
		if difficulty != "" && p.Difficulty != difficulty {
			return false
		}
		return !slices.Contains(excluded, p.ID)
	})

	if len(candidates) == 0 {
		return models.Puzzle{}, ErrNotFound
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(candidates))))
	if err != nil {
		log.Warn().Err(err).Msg("random selection failed, using first candidate")
		return candidates[0], nil
	}
	return candidates[n.Int64()], nil
}
