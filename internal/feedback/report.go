package feedback

// Section is the display view of one scored block.
type Section struct {
	Key              CategoryKey `json:"key,omitempty"`
	Title            string      `json:"title"`
	Score            int         `json:"score"`
	Badge            Badge       `json:"badge"`
	Tone             Tone        `json:"tone"`
	Strengths        []Tip       `json:"strengths"`
	Improvements     []Tip       `json:"improvements"`
	StrengthCount    int         `json:"strengthCount"`
	ImprovementCount int         `json:"improvementCount"`
}

// Report is what the results view renders for a submission.
type Report struct {
	OverallScore int       `json:"overallScore"`
	Badge        Badge     `json:"badge"`
	Tone         Tone      `json:"tone"`
	ATS          Section   `json:"ats"`
	Categories   []Section `json:"categories"`
}

// BuildReport reclassifies and partitions parsed feedback. Scores are passed through as is.
func BuildReport(f Feedback) Report {
	r := Report{
		OverallScore: f.OverallScore,
		Badge:        Classify(f.OverallScore),
		Tone:         ScoreTone(f.OverallScore),
		ATS:          buildSection("", "ATS Compatibility", f.ATS),
	}
	for _, c := range Categories(f) {
		r.Categories = append(r.Categories, buildSection(c.Key, c.Title, c.Data))
	}
	return r
}

func buildSection(key CategoryKey, title string, data CategoryFeedback) Section {
	good, improve := PartitionTips(data.Tips)
	return Section{
		Key:              key,
		Title:            title,
		Score:            data.Score,
		Badge:            Classify(data.Score),
		Tone:             ScoreTone(data.Score),
		Strengths:        good,
		Improvements:     improve,
		StrengthCount:    len(good),
		ImprovementCount: len(improve),
	}
}
