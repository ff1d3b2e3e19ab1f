package finalize

// Candidate is one local-variable declaration that can be marked final.
// A declaration statement naming several variables is a candidate only if
// every one of them qualifies.
type Candidate struct {
	Names []string `json:"names" toon:"names"`
	Line  uint32   `json:"line" toon:"line"`

	// DeclStart is the byte offset of the declaration statement, where the
	// rewriter inserts the modifier.
	DeclStart uint32 `json:"-" toon:"-"`
}

// MethodResult holds the candidates found in one method.
type MethodResult struct {
	Method    string      `json:"method" toon:"method"`
	Signature string      `json:"signature" toon:"signature"`
	Line      uint32      `json:"line" toon:"line"`
	Locals    []Candidate `json:"locals" toon:"locals"`
}

// FileResult holds the per-method results for one file.
type FileResult struct {
	Path    string         `json:"path" toon:"path"`
	Methods []MethodResult `json:"methods" toon:"methods"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalFiles      int `json:"total_files" toon:"total_files"`
	TotalMethods    int `json:"total_methods" toon:"total_methods"`
	TotalCandidates int `json:"total_candidates" toon:"total_candidates"`
}

// Analysis is the full finalize result.
type Analysis struct {
	Files   []FileResult `json:"files" toon:"files"`
	Summary Summary      `json:"summary" toon:"summary"`
}
