package pet

// Glyph is a learnable hieroglyph
type Glyph struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sound  string `json:"sound"`
}

// Glyphs is the fixed symbol set taught to every pet
var Glyphs = []Glyph{
	{Symbol: "𓄿", Name: "vulture", Sound: "ꜣ"},
	{Symbol: "𓇋", Name: "reed", Sound: "i"},
	{Symbol: "𓂝", Name: "arm", Sound: "ꜥ"},
	{Symbol: "𓅱", Name: "quail chick", Sound: "w"},
	{Symbol: "𓃀", Name: "foot", Sound: "b"},
	{Symbol: "𓊪", Name: "stool", Sound: "p"},
	{Symbol: "𓆑", Name: "viper", Sound: "f"},
	{Symbol: "𓅓", Name: "owl", Sound: "m"},
	{Symbol: "𓈖", Name: "water", Sound: "n"},
	{Symbol: "𓂋", Name: "mouth", Sound: "r"},
	{Symbol: "𓉔", Name: "courtyard", Sound: "h"},
	{Symbol: "𓏏", Name: "bread", Sound: "t"},
	{Symbol: "𓋹", Name: "ankh", Sound: "ꜥnḫ"},
	{Symbol: "𓂀", Name: "eye of horus", Sound: "wḏꜣt"},
	{Symbol: "𓆣", Name: "scarab", Sound: "ḫpr"},
	{Symbol: "𓇳", Name: "sun", Sound: "rꜥ"},
}

// MemoryRecord tracks how well one glyph is learned.
//
// A counter has to exceed MemoryLevelCount before the level moves, then both
// counters start over. Moves past either end are rolled back so the counter
// never runs away at the terminal ranks.
type MemoryRecord struct {
	Glyph          Glyph
	Level          MemoryLevel
	CorrectGuesses int
	WrongGuesses   int
}

// CorrectlyGuessed counts a success and reports whether the level advanced
func (r *MemoryRecord) CorrectlyGuessed() bool {
	r.CorrectGuesses++
	if r.CorrectGuesses <= MemoryLevelCount {
		return false
	}
	if r.Level >= MemoryMemorized {
		r.CorrectGuesses--
		return false
	}
	r.Level++
	r.CorrectGuesses = 0
	r.WrongGuesses = 0
	return true
}

// WronglyGuessed counts a miss and reports whether the level dropped
func (r *MemoryRecord) WronglyGuessed() bool {
	r.WrongGuesses++
	if r.WrongGuesses <= MemoryLevelCount {
		return false
	}
	if r.Level <= MemoryNew {
		r.WrongGuesses--
		return false
	}
	r.Level--
	r.CorrectGuesses = 0
	r.WrongGuesses = 0
	return true
}

// ResetLevel forgets everything about the glyph
func (r *MemoryRecord) ResetLevel() {
	r.Level = MemoryNew
	r.CorrectGuesses = 0
	r.WrongGuesses = 0
}

func newMemoryRecords() []*MemoryRecord {
	records := make([]*MemoryRecord, len(Glyphs))
	for i, g := range Glyphs {
		records[i] = &MemoryRecord{Glyph: g}
	}
	return records
}
