package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/instructions.txt
	instructionsTemplate string
	//go:embed prompts/response_format.txt
	responseFormat string
)

// ResponseFormat returns the JSON shape directive sent with every request.
func ResponseFormat() string {
	return strings.TrimSpace(responseFormat)
}

// PrepareInstructions renders the review instructions for one submission.
func PrepareInstructions(jobTitle, jobDescription, format string) string {
	r := strings.NewReplacer(
		"{{JOB_TITLE}}", strings.TrimSpace(jobTitle),
		"{{JOB_DESCRIPTION}}", strings.TrimSpace(jobDescription),
		"{{RESPONSE_FORMAT}}", strings.TrimSpace(format),
	)
	return strings.TrimSpace(r.Replace(instructionsTemplate))
}
