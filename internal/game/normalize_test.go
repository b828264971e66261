package game

import "testing"

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Titanic", want: "titanic"},
		{name: "strips punctuation", input: "Spider-Man: No Way Home!", want: "spiderman no way home"},
		{name: "drops leading article", input: "The Lion King", want: "lion king"},
		{name: "drops articles anywhere", input: "Once Upon a Time", want: "once upon time"},
		{name: "collapses whitespace", input: "  3   Idiots  ", want: "3 idiots"},
		{name: "keeps digits", input: "RRR", want: "rrr"},
		{name: "folds diacritics", input: "Amélie", want: "amelie"},
		{name: "folds diacritics in phrases", input: "Léon: The Professional", want: "leon professional"},
		{name: "empty", input: "", want: ""},
		{name: "only punctuation", input: "?!...", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAnswer(tt.input); got != tt.want {
				t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeAnswerEquivalence(t *testing.T) {
	pairs := []struct {
		a, b string
	}{
		{"The Dark Knight", "dark knight"},
		{"Finding Nemo", "FINDING NEMO"},
		{"Dilwale Dulhania Le Jayenge", "dilwale dulhania le jayenge!"},
		{"Amélie", "Amelie"},
	}
	for _, p := range pairs {
		if NormalizeAnswer(p.a) != NormalizeAnswer(p.b) {
			t.Errorf("NormalizeAnswer(%q) != NormalizeAnswer(%q)", p.a, p.b)
		}
	}
}
