package staticize

// Candidate is one method safe to mark static.
type Candidate struct {
	Name      string `json:"name" toon:"name"`
	Signature string `json:"signature" toon:"signature"`
	Line      uint32 `json:"line" toon:"line"`
}

// ClassResult holds the candidates found in one class.
type ClassResult struct {
	Class   string      `json:"class" toon:"class"`
	Methods []Candidate `json:"methods" toon:"methods"`
}

// FileResult holds the per-class results for one file.
type FileResult struct {
	Path    string        `json:"path" toon:"path"`
	Classes []ClassResult `json:"classes" toon:"classes"`
}

// Summary provides aggregate statistics.
type Summary struct {
	TotalFiles      int `json:"total_files" toon:"total_files"`
	TotalClasses    int `json:"total_classes" toon:"total_classes"`
	TotalCandidates int `json:"total_candidates" toon:"total_candidates"`
}

// Analysis is the full staticize result.
type Analysis struct {
	Files   []FileResult `json:"files" toon:"files"`
	Summary Summary      `json:"summary" toon:"summary"`
}
