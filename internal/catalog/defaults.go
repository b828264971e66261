package catalog

// defaultPuzzles is the built-in pool used when no puzzle file is present.
func defaultPuzzles() map[string][]puzzleRecord {
	return map[string][]puzzleRecord{
		"hollywood": {
			{Emojis: "🚢💔🧊", Answer: "Titanic", Difficulty: "easy", Hints: []string{"1912", "Leonardo DiCaprio", "Unsinkable ship"}},
			{Emojis: "🦁👑", Answer: "The Lion King", Difficulty: "easy", Hints: []string{"Disney", "Simba", "Circle of Life"}},
			{Emojis: "🕷️👦🌃", Answer: "Spider-Man", Difficulty: "easy", Hints: []string{"Marvel", "Peter Parker", "Web slinger"}},
			{Emojis: "🤖🚗", Answer: "Transformers", Difficulty: "medium", Hints: []string{"Autobots", "Robots in disguise", "Optimus Prime"}},
			{Emojis: "🧙‍♂️👦⚡", Answer: "Harry Potter", Difficulty: "medium", Hints: []string{"Hogwarts", "Magic", "Boy who lived"}},
			{Emojis: "🌪️🏠👠", Answer: "The Wizard of Oz", Difficulty: "medium", Hints: []string{"Dorothy", "Yellow brick road", "There's no place like home"}},
			{Emojis: "🦇🌆🃏", Answer: "The Dark Knight", Difficulty: "hard", Hints: []string{"Batman", "Joker", "Why so serious?"}},
			{Emojis: "🚗⏰", Answer: "Back to the Future", Difficulty: "hard", Hints: []string{"DeLorean", "Time travel", "1.21 gigawatts"}},
			{Emojis: "🌌🚀👽", Answer: "Guardians of the Galaxy", Difficulty: "hard", Hints: []string{"Marvel", "Star-Lord", "I am Groot"}},
			{Emojis: "🔍🐟", Answer: "Finding Nemo", Difficulty: "easy", Hints: []string{"Pixar", "Clownfish", "Just keep swimming"}},
		},
		"bollywood": {
			{Emojis: "👑💎🏰", Answer: "Mughal-E-Azam", Difficulty: "hard", Hints: []string{"Historical epic", "Anarkali", "Classic romance"}},
			{Emojis: "💃🎭❤️", Answer: "Devdas", Difficulty: "medium", Hints: []string{"Shah Rukh Khan", "Tragic romance", "Paro"}},
			{Emojis: "🎓📚❤️", Answer: "3 Idiots", Difficulty: "easy", Hints: []string{"Engineering college", "Aamir Khan", "All is well"}},
			{Emojis: "🏏🇮🇳🏆", Answer: "83", Difficulty: "medium", Hints: []string{"Cricket World Cup", "Kapil Dev", "1983 victory"}},
			{Emojis: "👸💍💔", Answer: "Padmaavat", Difficulty: "hard", Hints: []string{"Historical drama", "Deepika Padukone", "Sanjay Leela Bhansali"}},
		},
		"tollywood": {
			{Emojis: "🗡️👑🏰", Answer: "Baahubali", Difficulty: "medium", Hints: []string{"Epic movie", "Prabhas", "Why Kattappa killed Baahubali"}},
			{Emojis: "🎬🎭🎪", Answer: "Arjun Reddy", Difficulty: "hard", Hints: []string{"Medical student", "Vijay Deverakonda", "Intense romance"}},
			{Emojis: "🚂💥🔥", Answer: "RRR", Difficulty: "easy", Hints: []string{"SS Rajamouli", "Ram Charan", "Jr NTR friendship"}},
		},
	}
}
