package feedback

// TipType is the closed set of tip classifications.
type TipType string

const (
	TipGood    TipType = "good"
	TipImprove TipType = "improve"
)

// Valid reports whether t is one of the two known variants.
func (t TipType) Valid() bool {
	return t == TipGood || t == TipImprove
}

// Tip is a single strength or improvement. Explanation may be empty in the compact ATS form.
type Tip struct {
	Type        TipType `json:"type"`
	Tip         string  `json:"tip"`
	Explanation string  `json:"explanation,omitempty"`
}

// CategoryFeedback holds a score and its tips in source order.
type CategoryFeedback struct {
	Score int   `json:"score"`
	Tips  []Tip `json:"tips"`
}

// Feedback is the structure the AI service is asked to return.
type Feedback struct {
	OverallScore int              `json:"overallScore"`
	ATS          CategoryFeedback `json:"ATS"`
	ToneAndStyle CategoryFeedback `json:"toneAndStyle"`
	Content      CategoryFeedback `json:"content"`
	Structure    CategoryFeedback `json:"structure"`
	Skills       CategoryFeedback `json:"skills"`
}

// CategoryKey identifies one of the four detailed categories.
type CategoryKey string

const (
	CategoryToneAndStyle CategoryKey = "tone-and-style"
	CategoryContent      CategoryKey = "content"
	CategoryStructure    CategoryKey = "structure"
	CategorySkills       CategoryKey = "skills"
)

// Category pairs a category key and display title with its data.
type Category struct {
	Key   CategoryKey
	Title string
	Data  CategoryFeedback
}

// Categories returns the four detailed categories in display order.
func Categories(f Feedback) []Category {
	return []Category{
		{Key: CategoryToneAndStyle, Title: "Tone & Style", Data: f.ToneAndStyle},
		{Key: CategoryContent, Title: "Content", Data: f.Content},
		{Key: CategoryStructure, Title: "Structure", Data: f.Structure},
		{Key: CategorySkills, Title: "Skills", Data: f.Skills},
	}
}

// PartitionTips splits tips into good and improve, keeping relative order in each.
func PartitionTips(tips []Tip) (good, improve []Tip) {
	good = make([]Tip, 0, len(tips))
	improve = make([]Tip, 0, len(tips))
	for _, t := range tips {
		if t.Type == TipGood {
			good = append(good, t)
			continue
		}
		improve = append(improve, t)
	}
	return good, improve
}
