package model

type ScaleResponse struct {
	Root       string   `json:"root"`
	Mode       string   `json:"mode"`
	Scale      []string `json:"scale"`
	Chords     []string `json:"chords"`
	Relative   string   `json:"relative"`
	Enharmonic string   `json:"enharmonic,omitempty"`
	IsSharp    bool     `json:"is_sharp"`
	IsFlat     bool     `json:"is_flat"`
	Solfege    []string `json:"solfege"`
}

type GuessResponse struct {
	Root    string `json:"root"`
	Quality string `json:"quality"`
	Label   string `json:"label"`
}

type DetectResponse struct {
	Found        bool            `json:"found"`
	Guesses      []GuessResponse `json:"guesses"`
	ProbableRoot string          `json:"probableRoot,omitempty"`
}

func NewDetectResponse(d Detection) DetectResponse {
	res := DetectResponse{Found: d.Found, Guesses: make([]GuessResponse, 0, len(d.Guesses))}
	for _, g := range d.Guesses {
		res.Guesses = append(res.Guesses, GuessResponse{
			Root:    g.Root.Sharp(),
			Quality: g.Quality.String(),
			Label:   g.Label(),
		})
	}
	if !d.Found && d.ProbableRoot != nil {
		res.ProbableRoot = d.ProbableRoot.Sharp()
	}
	return res
}

type ErrorResponse struct {
	Error string `json:"error"`
}
