package domain

// Word is a single recognised word. Times are milliseconds.
type Word struct {
	Word  string `json:"word"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

// Segment is a time-coded slice of the transcript.
type Segment struct {
	ID    int    `json:"id"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
	Words []Word `json:"words,omitempty"`
}

// Chapter is an auto-detected topic boundary from the transcription provider.
type Chapter struct {
	Start    int64  `json:"start"`
	End      int64  `json:"end"`
	Gist     string `json:"gist"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
}

// Utterance is speaker-attributed text.
type Utterance struct {
	Start      int64   `json:"start"`
	End        int64   `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
	Text       string  `json:"text"`
}

// Transcript is the transcription provider output the generation steps read.
// Only Text is required; chapters enrich the prompts when present.
type Transcript struct {
	Text          string      `json:"text"`
	Segments      []Segment   `json:"segments"`
	Chapters      []Chapter   `json:"chapters"`
	Utterances    []Utterance `json:"utterances"`
	AudioDuration *int64      `json:"audio_duration,omitempty"`
}
