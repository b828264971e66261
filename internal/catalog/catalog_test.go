package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/strad-dev131/GuessWithEmoji/internal/models"
)

func writePuzzleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "puzzles.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write puzzle file: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writePuzzleFile(t, `{
		"hollywood": [
			{"emojis": "🚢💔🧊", "answer": "Titanic", "difficulty": "easy", "hints": ["1912"]},
			{"emojis": "🦁👑", "answer": "The Lion King", "difficulty": "easy", "hints": ["Disney"]}
		],
		"bollywood": [
			{"emojis": "🎓📚❤️", "answer": "3 Idiots", "difficulty": "easy", "hints": ["All is well"]}
		]
	}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Size() != 3 {
		t.Errorf("Size() = %d, want 3", c.Size())
	}

	p, ok := c.Get("hollywood_1")
	if !ok {
		t.Fatal("Get(hollywood_1) not found")
	}
	if p.Answer != "Titanic" || p.Category != models.CategoryHollywood {
		t.Errorf("unexpected puzzle: %+v", p)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Size() == 0 {
		t.Error("expected built-in puzzles, got empty catalog")
	}
}

func TestLoadSkipsBrokenEntries(t *testing.T) {
	path := writePuzzleFile(t, `{
		"hollywood": [
			{"emojis": "", "answer": "Broken", "difficulty": "easy"},
			{"emojis": "🔍🐟", "answer": "Finding Nemo", "difficulty": "weird"}
		],
		"nollywood": [
			{"emojis": "🎬", "answer": "Unknown Category", "difficulty": "easy"}
		]
	}`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", c.Size())
	}
	// Unknown difficulty falls back to medium.
	p, _ := c.Get("hollywood_2")
	if p.Difficulty != models.DifficultyMedium {
		t.Errorf("Difficulty = %s, want medium", p.Difficulty)
	}
}

func TestSelectFilters(t *testing.T) {
	path := writePuzzleFile(t, `{
		"hollywood": [
			{"emojis": "🚢", "answer": "Titanic", "difficulty": "easy"},
			{"emojis": "🦇", "answer": "The Dark Knight", "difficulty": "hard"}
		],
		"tollywood": [
			{"emojis": "🚂", "answer": "RRR", "difficulty": "easy"}
		]
	}`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name       string
		category   models.Category
		difficulty models.Difficulty
		wantID     string
		wantErr    bool
	}{
		{name: "category and difficulty", category: models.CategoryHollywood, difficulty: models.DifficultyHard, wantID: "hollywood_2"},
		{name: "category only", category: models.CategoryTollywood, wantID: "tollywood_1"},
		{name: "no match", category: models.CategoryBollywood, wantErr: true},
		{name: "difficulty without match", category: models.CategoryTollywood, difficulty: models.DifficultyHard, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.Select(tt.category, tt.difficulty, nil)
			if tt.wantErr {
				if err != ErrNotFound {
					t.Errorf("Select() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error: %v", err)
			}
			if p.ID != tt.wantID {
				t.Errorf("Select() = %s, want %s", p.ID, tt.wantID)
			}
		})
	}
}

func TestSelectAntiRepetition(t *testing.T) {
	path := writePuzzleFile(t, `{
		"hollywood": [
			{"emojis": "🚢", "answer": "Titanic", "difficulty": "easy"},
			{"emojis": "🦁", "answer": "The Lion King", "difficulty": "easy"},
			{"emojis": "🔍", "answer": "Finding Nemo", "difficulty": "easy"}
		]
	}`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// With a pool of 3, three selections with an accumulating exclusion set
	// must all differ; the fourth fails until the window resets.
	var excluded []string
	seen := make(map[string]bool)
	for i := 0; i < 3; i++ {
		p, err := c.Select(models.CategoryHollywood, models.DifficultyEasy, excluded)
		if err != nil {
			t.Fatalf("Select() #%d error: %v", i+1, err)
		}
		if seen[p.ID] {
			t.Fatalf("Select() #%d repeated puzzle %s", i+1, p.ID)
		}
		seen[p.ID] = true
		excluded = append(excluded, p.ID)
	}

	if _, err := c.Select(models.CategoryHollywood, models.DifficultyEasy, excluded); err != ErrNotFound {
		t.Errorf("Select() with exhausted pool error = %v, want ErrNotFound", err)
	}

	// Caller resets the window and retries once.
	if _, err := c.Select(models.CategoryHollywood, models.DifficultyEasy, nil); err != nil {
		t.Errorf("Select() after reset error: %v", err)
	}
}
