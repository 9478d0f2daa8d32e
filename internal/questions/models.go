package questions

// GrammarQuestion одна строка листа Grammar Questions
type GrammarQuestion struct {
	Unit             string `json:"unit"`
	Topic            string `json:"topic"`
	TopicDescription string `json:"topicDescription"`
	QuestionType     string `json:"questionType"`
	DifficultyLevel  string `json:"difficultyLevel"`
	Question         string `json:"question"`
	Answer           string `json:"answer"`
	Incorrect1       string `json:"incorrect1"`
	Incorrect2       string `json:"incorrect2"`
	Incorrect3       string `json:"incorrect3"`
	Incorrect4       string `json:"incorrect4"`
	Hint             string `json:"hint"`
}
